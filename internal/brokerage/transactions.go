package brokerage

import (
	"lean/internal/domain"
	"lean/internal/txmodel"
)

// Fees maps security types to commission schedules. Missing entries charge
// nothing.
type Fees map[domain.SecurityType]txmodel.Schedule

// TransactionTable binds security types to transaction models. A nil entry
// means the type is unsupported.
type TransactionTable [domain.SecurityTypeCount]txmodel.TransactionModel

// variantFor builds the transaction model every security type uses unless a
// brokerage overrides it.
var variantFor = [...]func(txmodel.Schedule) *txmodel.Model{
	domain.SecurityTypeBase:      txmodel.NewEquity,
	domain.SecurityTypeEquity:    txmodel.NewEquity,
	domain.SecurityTypeOption:    txmodel.NewOption,
	domain.SecurityTypeCommodity: txmodel.NewFuture,
	domain.SecurityTypeForex:     txmodel.NewForex,
	domain.SecurityTypeFuture:    txmodel.NewFuture,
	domain.SecurityTypeCfd:       txmodel.NewForex,
	domain.SecurityTypeCrypto:    txmodel.NewCrypto,
}

func _() {
	// Fails to compile when a security type is added without a variant.
	var x [1]struct{}
	_ = x[len(variantFor)-domain.SecurityTypeCount]
}

// StandardTransactions returns a table binding each of types (all types when
// none are given) to its standard variant with the matching fee schedule.
func StandardTransactions(fees Fees, types ...domain.SecurityType) TransactionTable {
	if len(types) == 0 {
		types = domain.AllSecurityTypes()
	}
	var table TransactionTable
	for _, st := range types {
		if st.Valid() {
			table[st] = variantFor[st](fees[st])
		}
	}
	return table
}

// resolve looks up the model for (symbol, st) in table.
func resolve(model string, table *TransactionTable, symbol string, st domain.SecurityType) (txmodel.TransactionModel, error) {
	if symbol == "" {
		return nil, &ResolutionError{Model: model, Symbol: symbol, SecurityType: st, Kind: KindInvalidSymbol}
	}
	if !st.Valid() {
		return nil, &ResolutionError{Model: model, Symbol: symbol, SecurityType: st, Kind: KindUnknownSecurityType}
	}
	tm := table[st]
	if tm == nil {
		return nil, &ResolutionError{Model: model, Symbol: symbol, SecurityType: st, Kind: KindUnsupportedSecurityType}
	}
	return tm, nil
}
