package enum

// DiscountType represents how a sale discount is applied
type DiscountType string

const (
	DiscountTypeFixed      DiscountType = "fixed"
	DiscountTypePercentage DiscountType = "percentage"
)

// IsValid reports whether the discount type is one of the known values
func (d DiscountType) IsValid() bool {
	switch d {
	case DiscountTypeFixed, DiscountTypePercentage:
		return true
	}
	return false
}

func (d DiscountType) String() string {
	return string(d)
}
