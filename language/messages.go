package language

// Default is the code used when nothing better is known
const Default = "sv"

// Language is one supported conversation language
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
}

var supported = []Language{
	{Code: "sv", Name: "Swedish", NativeName: "Svenska"},
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "fi", Name: "Finnish", NativeName: "Suomi"},
	{Code: "so", Name: "Somali", NativeName: "Soomaali"},
	{Code: "ar", Name: "Arabic", NativeName: "العربية"},
	{Code: "tr", Name: "Turkish", NativeName: "Türkçe"},
}

// Supported returns the supported languages, Swedish first
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Lookup returns the language for a code
func Lookup(code string) (Language, bool) {
	for _, l := range supported {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// NativeName returns the native name of a language, Svenska for unknown codes
func NativeName(code string) string {
	if l, ok := Lookup(code); ok {
		return l.NativeName
	}
	return supported[0].NativeName
}

var apologies = map[string]string{
	"sv": "Jag kunde inte hämta information just nu. Försök igen senare eller kontakta Botkyrka kommun direkt.",
	"en": "I couldn't retrieve information right now. Please try again later or contact Botkyrka municipality directly.",
	"so": "Ma heli karo macluumaadka hadda. Fadlan isku day mar kale ama la xiriir degmada Botkyrka si toos ah.",
	"ar": "لم أتمكن من الحصول على المعلومات الآن. يرجى المحاولة مرة أخرى لاحقاً أو الاتصال ببلدية بوتشيركا مباشرة.",
	"tr": "Şu anda bilgi alamıyorum. Lütfen daha sonra tekrar deneyin veya Botkyrka belediyesi ile doğrudan iletişime geçin.",
	"fi": "En pysty hakemaan tietoja juuri nyt. Yritä myöhemmin uudelleen tai ota yhteyttä Botkyrkan kuntaan suoraan.",
}

var greetings = map[string]string{
	"sv": "Hej! Hur kan jag hjälpa dig idag?",
	"en": "Hello! How can I help you today?",
	"so": "Salaam! Sidee kuu caawin karaa maanta?",
	"ar": "مرحبا! كيف يمكنني مساعدتك اليوم؟",
	"tr": "Merhaba! Bugün size nasıl yardımcı olabilirim?",
	"fi": "Hei! Kuinka voin auttaa sinua tänään?",
}

var noResults = map[string]string{
	"sv": "Jag kunde inte hitta information om det du frågade efter. Försök med andra sökord eller kontakta Botkyrka kommun direkt på botkyrka.se",
	"en": "I couldn't find information about what you asked for. Try different search terms or contact Botkyrka municipality directly at botkyrka.se",
	"so": "Ma heli karo macluumaad ku saabsan waxa aad waydiisay. Tijaabi erayo kale ama la xiriir degmada Botkyrka si toos ah botkyrka.se",
	"ar": "لم أتمكن من العثور على معلومات حول ما سألت عنه. جرب كلمات بحث مختلفة أو اتصل ببلدية بوتشيركا مباشرة على botkyrka.se",
	"tr": "Sorduğunuz hakkında bilgi bulamadım. Farklı arama terimleri deneyin veya Botkyrka belediyesine doğrudan botkyrka.se adresinden ulaşın",
	"fi": "En löytänyt tietoja siitä, mitä kysyit. Kokeile erilaisia hakusanoja tai ota yhteyttä Botkyrkan kuntaan suoraan osoitteessa botkyrka.se",
}

var feedbackThanks = map[string]string{
	"sv": "Tack för din feedback! Den hjälper oss att förbättra tjänsten.",
	"en": "Thank you for your feedback! It helps us improve the service.",
	"so": "Mahadsanid jawaabkaaga! Waxay naga caawisaa inaan hagaajinno adeegga.",
	"ar": "شكراً لتقييمك! يساعدنا على تحسين الخدمة.",
	"tr": "Geri bildiriminiz için teşekkürler! Hizmeti geliştirmemize yardımcı oluyor.",
	"fi": "Kiitos palautteestasi! Se auttaa meitä parantamaan palvelua.",
}

var fallbackConfirmations = map[string]string{
	"sv": "Tack! Din fråga har skickats till kommunen och du kommer få svar inom 2-3 arbetsdagar.",
	"en": "Thank you! Your question has been sent to the municipality and you will receive a response within 2-3 business days.",
	"so": "Mahadsanid! Su'aalkaaga ayaa loo diray dawladda hoose waxaadna heli doontaa jawaab 2-3 maalmood shaqo gudahood.",
	"ar": "شكراً لك! تم إرسال سؤالك إلى البلدية وستحصل على رد خلال 2-3 أيام عمل.",
	"tr": "Teşekkürler! Sorunuz belediyeye gönderildi ve 2-3 iş günü içinde yanıt alacaksınız.",
	"fi": "Kiitos! Kysymyksesi on lähetetty kunnalle ja saat vastauksen 2-3 arkipäivän kuluessa.",
}

func message(table map[string]string, code string) string {
	if m, ok := table[code]; ok {
		return m
	}
	return table[Default]
}

// Apology is the canned answer used when the model cannot produce one
func Apology(code string) string { return message(apologies, code) }

// Greeting is the opening message of a conversation
func Greeting(code string) string { return message(greetings, code) }

// NoResults is the canned answer when search found nothing and synthesis failed
func NoResults(code string) string { return message(noResults, code) }

// FeedbackThanks acknowledges a feedback submission
func FeedbackThanks(code string) string { return message(feedbackThanks, code) }

// FallbackConfirmation acknowledges a question forwarded to municipal staff
func FallbackConfirmation(code string) string { return message(fallbackConfirmations, code) }
