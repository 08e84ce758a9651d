package utils

import (
	"fmt"
	"strings"
	"time"

	"sarpras-backend/internal/domain"

	"github.com/google/uuid"
)

var conditionCodes = map[domain.AssetCondition]string{
	domain.ConditionGood:        "BK",
	domain.ConditionMinorDamage: "RR",
	domain.ConditionMajorDamage: "RB",
	domain.ConditionLost:        "HL",
}

// GenerateAssetCode builds a human-readable asset code of the form
// CAT-NAM-BK-20240115-1A2B: category prefix, name prefix, condition code,
// date, random suffix. Split-off lots get a fresh code so the two lots
// stay distinguishable on printed labels.
func GenerateAssetCode(name, categoryName string, condition domain.AssetCondition) string {
	catPart := codePrefix(categoryName, "XYZ")
	namePart := codePrefix(name, "ABC")

	condPart, ok := conditionCodes[condition]
	if !ok {
		condPart = "BK"
	}

	datePart := time.Now().UTC().Format("20060102")
	return fmt.Sprintf("%s-%s-%s-%s-%s", catPart, namePart, condPart, datePart, randSuffix())
}

// GenerateLoanCode builds the code printed on a loan ticket, e.g.
// PJM-20240115-1A2B.
func GenerateLoanCode() string {
	return fmt.Sprintf("PJM-%s-%s", time.Now().UTC().Format("20060102"), randSuffix())
}

func codePrefix(s, fallback string) string {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		s = fallback
	}
	if len(s) > 3 {
		s = s[:3]
	}
	return s
}

func randSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
}
