package model

// Category labels assigned by the categorizer.
const (
	CategorySalary        = "Salary"
	CategoryRent          = "Rent"
	CategoryEMI           = "EMI"
	CategoryInvestment    = "Investment"
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryBills         = "Bills"
	CategoryCreditCard    = "Credit Card Payment"
	CategoryEntertainment = "Entertainment"
	CategoryOthers        = "Others"
)

// Categories lists every built-in label in rule order, Others last.
var Categories = []string{
	CategorySalary,
	CategoryRent,
	CategoryEMI,
	CategoryInvestment,
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryBills,
	CategoryCreditCard,
	CategoryEntertainment,
	CategoryOthers,
}
