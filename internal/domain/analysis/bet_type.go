package analysis

import (
	"fmt"
	"strings"
)

// BetType is the market a run predicts. Values are the product codes shown
// to users and passed to the model verbatim.
type BetType string

const (
	BetTypeFullTime  BetType = "MS"
	BetTypeFirstHalf BetType = "İY"
	BetTypeHandicap  BetType = "Handikap"
	BetTypeHalfFull  BetType = "İY/MS"
	BetTypeBothScore BetType = "KG"
	BetTypeOverUnder BetType = "Alt/Üst"
)

type BetTypeInfo struct {
	Code        BetType `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

var betTypes = []BetTypeInfo{
	{Code: BetTypeFullTime, Name: "Maç Sonucu", Description: "90 dakika sonunda maçın galibini tahmin et."},
	{Code: BetTypeFirstHalf, Name: "İlk Yarı Sonucu", Description: "İlk 45 dakika sonunda maçın galibini tahmin et."},
	{Code: BetTypeHandicap, Name: "Handikaplı Sonuç", Description: "Zayıf takıma verilen gol avansına göre sonucu tahmin et."},
	{Code: BetTypeHalfFull, Name: "İlk Yarı / Maç Sonucu", Description: "Hem ilk yarı hem de maç sonucunu doğru tahmin et."},
	{Code: BetTypeBothScore, Name: "Karşılıklı Gol", Description: "Her iki takımın da gol atıp atmayacağını tahmin et (Var/Yok)."},
	{Code: BetTypeOverUnder, Name: "Alt / Üst", Description: "Maçtaki toplam gol sayısını (genellikle 2.5) tahmin et."},
}

// ASCII spellings clients without Turkish keyboards send.
var betTypeAliases = map[string]BetType{
	"ms":       BetTypeFullTime,
	"iy":       BetTypeFirstHalf,
	"handikap": BetTypeHandicap,
	"handicap": BetTypeHandicap,
	"iy/ms":    BetTypeHalfFull,
	"iy_ms":    BetTypeHalfFull,
	"kg":       BetTypeBothScore,
	"btts":     BetTypeBothScore,
	"alt/ust":  BetTypeOverUnder,
	"alt_ust":  BetTypeOverUnder,
}

func BetTypes() []BetTypeInfo {
	out := make([]BetTypeInfo, len(betTypes))
	copy(out, betTypes)
	return out
}

func ParseBetType(raw string) (BetType, error) {
	value := strings.TrimSpace(raw)
	for _, item := range betTypes {
		if string(item.Code) == value {
			return item.Code, nil
		}
	}
	if bt, ok := betTypeAliases[strings.ToLower(value)]; ok {
		return bt, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownBetType, raw)
}

func (b BetType) Info() (BetTypeInfo, bool) {
	for _, item := range betTypes {
		if item.Code == b {
			return item, true
		}
	}
	return BetTypeInfo{}, false
}
