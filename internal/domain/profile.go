package domain

import "time"

// BusinessType enumerates the supported merchant categories.
type BusinessType string

const (
	BusinessTypeRetail      BusinessType = "retail"
	BusinessTypeRestaurant  BusinessType = "restaurant"
	BusinessTypeCafe        BusinessType = "cafe"
	BusinessTypeSalon       BusinessType = "salon"
	BusinessTypePharmacy    BusinessType = "pharmacy"
	BusinessTypeGrocery     BusinessType = "grocery"
	BusinessTypeClothing    BusinessType = "clothing"
	BusinessTypeElectronics BusinessType = "electronics"
	BusinessTypeOther       BusinessType = "other"
)

// Valid reports whether the business type is one of the known categories.
func (t BusinessType) Valid() bool {
	switch t {
	case BusinessTypeRetail, BusinessTypeRestaurant, BusinessTypeCafe,
		BusinessTypeSalon, BusinessTypePharmacy, BusinessTypeGrocery,
		BusinessTypeClothing, BusinessTypeElectronics, BusinessTypeOther:
		return true
	}
	return false
}

// PlanTrial is the only plan assigned at signup.
const PlanTrial = "trial"

// TrialWindow is the fixed trial period starting at profile creation.
const TrialWindow = 30 * 24 * time.Hour

// ProfileRecord holds the business data attached to an identity.
// The ID equals the identity provider's account id.
type ProfileRecord struct {
	ID           string
	BusinessName string
	Phone        string
	BusinessType BusinessType
	Plan         string
	CreatedAt    time.Time
	TrialStart   time.Time
	TrialEnd     time.Time
}

// NewTrialProfile builds the profile written exactly once at signup.
// Invariant: TrialEnd = TrialStart + TrialWindow.
func NewTrialProfile(id, businessName, phone string, businessType BusinessType, now time.Time) ProfileRecord {
	return ProfileRecord{
		ID:           id,
		BusinessName: businessName,
		Phone:        phone,
		BusinessType: businessType,
		Plan:         PlanTrial,
		CreatedAt:    now,
		TrialStart:   now,
		TrialEnd:     now.Add(TrialWindow),
	}
}
