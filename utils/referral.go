package utils

import (
	"crypto/rand"
	"encoding/base32"
	"strings"

	"github.com/AveloCapital/avelo_backend/models"
)

// Referral code prefixes per referring entity type.
// Format: {TYPE}-{RANDOM} where RANDOM is 6 alphanumeric characters.
// Example: INT-ABC123, PTR-XYZ789, CP-DEF456
const (
	introducerPrefix        = "INT"
	partnerPrefix           = "PTR"
	commercialPartnerPrefix = "CP"
)

// GenerateReferralCode generates an onboarding referral code for the given
// referring entity type.
func GenerateReferralCode(entityType models.ReferringEntityType) (string, error) {
	var prefix string
	switch entityType {
	case models.EntityIntroducer:
		prefix = introducerPrefix
	case models.EntityPartner:
		prefix = partnerPrefix
	case models.EntityCommercialPartner:
		prefix = commercialPartnerPrefix
	default:
		return "", models.ErrUnknownEntityType
	}

	randomBytes := make([]byte, 4)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	randomStr := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	randomStr = strings.ToUpper(randomStr)
	if len(randomStr) > 6 {
		randomStr = randomStr[:6]
	}
	if len(randomStr) < 6 {
		randomStr = randomStr + strings.Repeat("0", 6-len(randomStr))
	}

	return prefix + "-" + randomStr, nil
}
