package enums

// PrincipalKind separates back-office users from storefront customers in token claims.
type PrincipalKind string

const (
	PrincipalUser     PrincipalKind = "user"
	PrincipalCustomer PrincipalKind = "customer"
)

// String implements fmt.Stringer.
func (p PrincipalKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrincipalKind.
func (p PrincipalKind) IsValid() bool {
	return p == PrincipalUser || p == PrincipalCustomer
}
