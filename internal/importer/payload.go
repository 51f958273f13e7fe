package importer

import "encoding/json"

// Top-level container and name keys used by the data server.
const (
	keyBankTransactions  = "bankTransactions"
	keyMFTransactions    = "mfTransactions"
	keyStockTransactions = "stockTransactions"
	keyTxns              = "txns"
	keySchemeName        = "schemeName"
	keyStockName         = "stockName"
)

// BankPayload is a decoded bank export: accounts, each with raw rows.
type BankPayload struct {
	Accounts []BankAccount
}

// BankAccount holds one account's undecoded rows.
type BankAccount struct {
	Rows []json.RawMessage
}

// HoldingsPayload is a decoded mutual fund or stock export.
type HoldingsPayload struct {
	Holdings []Holding
}

// Holding is one scheme or stock with its undecoded rows.
type Holding struct {
	Name string
	Rows []json.RawMessage
}

// DecodeBankPayload decodes {"bankTransactions": [{"txns": [...]}, ...]}.
// Missing keys or malformed JSON yield an empty payload; accounts that are
// not objects are skipped.
func DecodeBankPayload(data []byte) BankPayload {
	var p BankPayload
	for _, obj := range containerObjects(data, keyBankTransactions) {
		rows, ok := rawArray(obj[keyTxns])
		if !ok {
			continue
		}
		p.Accounts = append(p.Accounts, BankAccount{Rows: rows})
	}
	return p
}

// DecodeMFPayload decodes {"mfTransactions": [{"schemeName", "txns"}, ...]}.
func DecodeMFPayload(data []byte) HoldingsPayload {
	return decodeHoldings(data, keyMFTransactions, keySchemeName)
}

// DecodeStockPayload decodes {"stockTransactions": [{"stockName", "txns"}, ...]}.
func DecodeStockPayload(data []byte) HoldingsPayload {
	return decodeHoldings(data, keyStockTransactions, keyStockName)
}

func decodeHoldings(data []byte, containerKey, nameKey string) HoldingsPayload {
	var p HoldingsPayload
	for _, obj := range containerObjects(data, containerKey) {
		rows, ok := rawArray(obj[keyTxns])
		if !ok {
			continue
		}
		name, _ := decodeString(obj[nameKey])
		p.Holdings = append(p.Holdings, Holding{Name: name, Rows: rows})
	}
	return p
}

// containerObjects returns the objects in the array under key.
func containerObjects(data []byte, key string) []map[string]json.RawMessage {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil
	}
	items, ok := rawArray(top[key])
	if !ok {
		return nil
	}
	var objs []map[string]json.RawMessage
	for _, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			continue
		}
		objs = append(objs, obj)
	}
	return objs
}

// rawArray decodes a JSON array; absent and null count as not present.
func rawArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}
