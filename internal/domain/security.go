package domain

import (
	"fmt"
	"strings"
)

// SecurityType classifies a tradable instrument. The set is closed; code
// that switches over it should cover every value up to securityTypeCount.
type SecurityType uint8

const (
	SecurityTypeBase SecurityType = iota
	SecurityTypeEquity
	SecurityTypeOption
	SecurityTypeCommodity
	SecurityTypeForex
	SecurityTypeFuture
	SecurityTypeCfd
	SecurityTypeCrypto

	securityTypeCount
)

// SecurityTypeCount is the number of defined security types. Tables indexed
// by SecurityType use it to assert they are complete.
const SecurityTypeCount = int(securityTypeCount)

var securityTypeNames = [...]string{
	SecurityTypeBase:      "base",
	SecurityTypeEquity:    "equity",
	SecurityTypeOption:    "option",
	SecurityTypeCommodity: "commodity",
	SecurityTypeForex:     "forex",
	SecurityTypeFuture:    "future",
	SecurityTypeCfd:       "cfd",
	SecurityTypeCrypto:    "crypto",
}

func _() {
	// Fails to compile when a security type is added without a name.
	var x [1]struct{}
	_ = x[len(securityTypeNames)-SecurityTypeCount]
}

// AllSecurityTypes returns every defined security type in declaration order.
func AllSecurityTypes() []SecurityType {
	out := make([]SecurityType, 0, SecurityTypeCount)
	for st := SecurityType(0); st < securityTypeCount; st++ {
		out = append(out, st)
	}
	return out
}

// Valid reports whether st is one of the defined values.
func (st SecurityType) Valid() bool {
	return st < securityTypeCount
}

func (st SecurityType) String() string {
	if !st.Valid() {
		return fmt.Sprintf("SecurityType(%d)", uint8(st))
	}
	return securityTypeNames[st]
}

// ParseSecurityType maps a case-insensitive name to a SecurityType.
func ParseSecurityType(s string) (SecurityType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "fx":
		return SecurityTypeForex, nil
	case "stock", "us_equity":
		return SecurityTypeEquity, nil
	}
	for i, n := range securityTypeNames {
		if n == name {
			return SecurityType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown security type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (st SecurityType) MarshalText() ([]byte, error) {
	if !st.Valid() {
		return nil, fmt.Errorf("invalid security type %d", uint8(st))
	}
	return []byte(st.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (st *SecurityType) UnmarshalText(text []byte) error {
	v, err := ParseSecurityType(string(text))
	if err != nil {
		return err
	}
	*st = v
	return nil
}
