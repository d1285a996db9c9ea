package gemini

import (
	"fmt"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/analysis"
)

const extractionInstruction = "Bu görseldeki futbol bülteninden tüm maçları 'Ev Sahibi vs Deplasman' formatında listele. " +
	"Sadece JSON formatında bir `matches` dizisi döndür. Başka hiçbir metin ekleme."

var extractionSchema = &schema{
	Type: "OBJECT",
	Properties: map[string]*schema{
		"matches": {
			Type:        "ARRAY",
			Description: `Görselde tespit edilen tüm maçların bir listesi. Her öğe, "Ev Sahibi vs Deplasman" formatında bir string olmalıdır.`,
			Items:       &schema{Type: "STRING"},
		},
	},
	Required: []string{"matches"},
}

var analysisSchema = &schema{
	Type: "ARRAY",
	Items: &schema{
		Type: "OBJECT",
		Properties: map[string]*schema{
			"match": {
				Type:        "STRING",
				Description: `Maçtaki ev sahibi ve deplasman takımları. Örn: "Fenerbahçe vs Galatasaray"`,
			},
			"prediction": {
				Type:        "STRING",
				Description: `Seçilen bahis türü için spesifik tahmin. Örn: "Ev Sahibi Kazanır", "2.5 Gol Üstü", "Karşılıklı Gol Var"`,
			},
			"confidence": {
				Type:        "STRING",
				Description: "Tahminin güven seviyesi: 'Low', 'Medium', ya da 'High'",
				Enum:        []string{string(analysis.ConfidenceLow), string(analysis.ConfidenceMedium), string(analysis.ConfidenceHigh)},
			},
			"reasoning": {
				Type:        "STRING",
				Description: "Tahmine yol açan, SAĞLANAN VERİLERE dayalı detaylı, adım adım açıklama. H2H, son maçlar, gol ortalamaları gibi spesifik verileri referans göster.",
			},
		},
		Required: []string{"match", "prediction", "confidence", "reasoning"},
	},
}

func analysisPrompt(betType analysis.BetType, matchJSON []byte) string {
	name := string(betType)
	if info, ok := betType.Info(); ok {
		name = fmt.Sprintf("%s (%s)", info.Code, info.Name)
	}

	return fmt.Sprintf(`Aşağıda sana JSON formatında, maçlar hakkında %%100 doğru ve canlı istatistiksel veriler sunuyorum.
Bu veriler şunları içerir: takımlar arası geçmiş maçlar (H2H), takımların son form durumları ve önemli sakat/cezalı oyuncular.

SENİN GÖREVİN:
SADECE VE SADECE sana sağlanan bu yapılandırılmış JSON verilerini kullanarak, her bir maç için "%[1]s" bahis türüne yönelik bir analiz yapmaktır.

Analizini yaparken şu adımları izle:
1. H2H sonuçlarını değerlendir. Hangi takımın üstünlüğü var? Maçlar genellikle gollü mü geçiyor?
2. Takımların son 10 maçlık form durumunu (galibiyet, mağlubiyet, atılan/yenilen goller) analiz et.
3. Varsa, kilit oyuncuların sakatlıklarının veya cezalarının maçın sonucuna olası etkisini yorumla.
4. Tüm bu verilere dayanarak, "%[1]s" bahsi için mantıklı bir TAHMİN, bu tahmine olan GÜVEN SEVİYESİ ('Low', 'Medium', 'High') ve bu sonuca nasıl ulaştığını açıklayan detaylı bir GEREKÇE oluştur.

Her sonucun "match" alanına, verideki "match" değerini aynen yaz.
Çıktın, her maç için bir nesne içeren bir JSON dizisi olmalıdır.

İşte analiz etmen gereken veriler:
%[2]s
`, name, matchJSON)
}
