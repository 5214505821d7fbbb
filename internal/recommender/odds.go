package recommender

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DecimalToAmerican formata a odd decimal no formato americano de exibição
// (ex: 2.5 → "+150", 1.5 → "-200"). Transformação só de apresentação: nunca
// realimenta a pontuação.
func DecimalToAmerican(decimal float64) string {
	if decimal >= 2.0 {
		return "+" + strconv.Itoa(int(math.Round((decimal-1.0)*100.0)))
	}
	return "-" + strconv.Itoa(int(math.Round(100.0/(decimal-1.0))))
}

// AmericanToDecimal converte odds no formato americano ("+150", "-110") para
// o multiplicador decimal.
func AmericanToDecimal(american string) (float64, error) {
	if len(american) < 2 || (american[0] != '+' && american[0] != '-') {
		return 0, fmt.Errorf("invalid american odds %q", american)
	}
	v, err := strconv.Atoi(strings.TrimSpace(american[1:]))
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid american odds %q", american)
	}
	if american[0] == '+' {
		return (float64(v) / 100.0) + 1.0, nil
	}
	return (100.0 / float64(v)) + 1.0, nil
}

// PotentialPayoutCents calcula o payout potencial (em centavos) de um stake
// aplicado à odd combinada.
func PotentialPayoutCents(stakeCents int64, combinedOdds float64) int64 {
	return int64(math.Round(float64(stakeCents) * combinedOdds))
}
