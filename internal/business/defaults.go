package business

import (
	"github.com/chylers/storefront-api/pkg/db/models"
	dbtypes "github.com/chylers/storefront-api/pkg/db/types"
)

const weekdayHours = "8:00 AM - 5:00 PM HST"

// DefaultInfo is the row created the first time business info is read.
func DefaultInfo() *models.BusinessInfo {
	return &models.BusinessInfo{
		CompanyName: "Chyler's Hawaiian Beef Chips",
		Address:     "91-1085 Lexington Street, Kapolei, HI 96707",
		Phone:       "1-800-484-1663",
		Email:       "BeefChips@chylers.com",
		Hours: map[string]string{
			"monday":    weekdayHours,
			"tuesday":   weekdayHours,
			"wednesday": weekdayHours,
			"thursday":  weekdayHours,
			"friday":    weekdayHours,
			"saturday":  "Closed",
			"sunday":    "Closed",
		},
		WillCallLocation: "Kapolei Kitchen Factory Outlet",
		WillCallHours:    "Monday-Friday, 8:00 AM to 5:00 PM Hawaii Time",
		Certifications:   dbtypes.StringList{"Made in Hawaii with Aloha"},
		AboutUs: "Founded in 2004 and named after our daughter Chyler, we've been crafting premium " +
			"Hawaiian beef chips with aloha. Our award-winning Roasted Garlic flavor is just one of " +
			"four delicious options we offer, each made with care in our Kapolei facility.",
		Values:      dbtypes.StringList{},
		FoundedYear: 2004,
	}
}
