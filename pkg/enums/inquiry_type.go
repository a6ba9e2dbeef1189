package enums

import "fmt"

// InquiryType classifies contact form submissions.
type InquiryType string

const (
	InquiryTypeGeneral     InquiryType = "general"
	InquiryTypeOrder       InquiryType = "order"
	InquiryTypeProduct     InquiryType = "product"
	InquiryTypeWholesale   InquiryType = "wholesale"
	InquiryTypePartnership InquiryType = "partnership"
	InquiryTypeSupport     InquiryType = "support"
)

var validInquiryTypes = []InquiryType{
	InquiryTypeGeneral,
	InquiryTypeOrder,
	InquiryTypeProduct,
	InquiryTypeWholesale,
	InquiryTypePartnership,
	InquiryTypeSupport,
}

// String implements fmt.Stringer.
func (i InquiryType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InquiryType.
func (i InquiryType) IsValid() bool {
	for _, candidate := range validInquiryTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInquiryType converts raw input into a InquiryType.
func ParseInquiryType(value string) (InquiryType, error) {
	for _, candidate := range validInquiryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inquiry type %q", value)
}
