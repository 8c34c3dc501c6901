package intent

// category is one municipal service area with its keyword lists.
// Keywords are lowercase and matched as substrings of the lowercased query.
type category struct {
	Name       string
	Keywords   []string // all languages
	Urgent     []string
	Procedural []string
	Hints      []string
}

var urgentCommon = []string{"akut", "emergency", "brådskande", "urgent"}

// categories is the canonical order; on equal scores the earlier entry wins.
var categories = []category{
	{
		Name: "Förskola",
		Keywords: []string{
			"förskola", "dagis", "förskoleansökan", "förskoleköer", "förskoleplats", "barnomsorg", "förskolestart",
			"preschool", "daycare", "kindergarten", "preschool application", "childcare",
			"روضة", "حضانة", "طلب روضة", "رعاية أطفال",
			"dugsiga", "dhegashada caruurta", "ardayda yaryar",
			"anaokulu", "kreş", "okul öncesi", "çocuk bakımı",
		},
		Urgent:     urgentCommon,
		Procedural: []string{"ansökan", "application", "ansök", "apply", "hur", "how", "när", "when"},
		Hints:      []string{"Förskoleansökan och köer", "Avgifter och måltider", "Öppettider och stängning"},
	},
	{
		Name: "Grundskola",
		Keywords: []string{
			"grundskola", "grundskolor", "skola", "skolor", "skolplats", "skolvalet", "inskriv", "skolskjuts", "skolmat", "fritids",
			"elementary school", "primary school", "school", "schools", "school enrollment", "school choice", "school transport",
			"مدرسة", "مدرسة ابتدائية", "تسجيل مدرسة", "اختيار مدرسة",
			"dugsiga hoose", "iskuul", "qorista dugsiga", "doorashada dugsiga",
			"ilkokul", "okul", "okul kaydı", "okul seçimi", "okul taşımacılığı",
		},
		Urgent:     urgentCommon,
		Procedural: []string{"ansökan", "application", "ansök", "apply", "hur", "how", "när", "when", "vilka", "which"},
		Hints:      []string{"Skolval och ansökan", "Skolskjuts och måltider", "Stödresurser"},
	},
	{
		Name: "Bygglov",
		Keywords: []string{
			"bygglov", "byggande", "renovering", "tillbyggnad", "anmälan", "bygganmälan", "uteservering", "marklov",
			"building permit", "construction", "renovation", "building application", "extension",
			"ترخيص بناء", "بناء", "تجديد", "تطبيق بناء",
			"ruqsadda dhismaha", "dhisma", "dayactirka", "arjida dhismaha",
			"yapı izni", "inşaat", "renovasyon", "yapı başvurusu", "ek bina",
		},
		Urgent:     urgentCommon,
		Procedural: []string{"ansökan", "application", "ansök", "apply", "hur", "how", "vilka handlingar", "documents"},
		Hints:      []string{"Bygglovsansökan", "Handläggningstider", "Avgifter och dokument"},
	},
	{
		Name: "Boende-och-miljö",
		Keywords: []string{
			"boende", "bostadsbidrag", "avfall", "återvinning", "sopor", "miljö", "grönområde", "park", "skog", "städa", "skötsel",
			"housing", "housing allowance", "waste", "recycling", "garbage", "environment", "green area", "forest", "cleaning",
			"سكن", "بدل سكن", "نفايات", "إعادة تدوير", "قمامة", "بيئة", "منطقة خضراء",
			"degaan", "caawimaadda guriga", "qashinka", "dib-u-isticmaalka", "deegaanka",
			"konut", "konut yardımı", "atık", "geri dönüşüm", "çöp", "çevre", "yeşil alan",
		},
		Urgent:     append(append([]string{}, urgentCommon...), "miljöproblem", "environmental problem"),
		Procedural: []string{"ansökan", "application", "ansök", "apply", "hur", "how", "rapportera", "report"},
		Hints:      []string{"Bostadsbidrag", "Avfallshantering", "Miljörapportering"},
	},
	{
		Name: "Stöd-och-trygghet",
		Keywords: []string{
			"hemtjänst", "äldreomsorg", "socialtjänst", "ekonomiskt bistånd", "trygghet", "säkerhet", "våld", "hot", "lss",
			"home care", "elderly care", "social services", "financial aid", "safety", "security", "violence", "threats",
			"رعاية منزلية", "رعاية المسنين", "خدمات اجتماعية", "مساعدة مالية", "أمان", "عنف",
			"daryeelka guriga", "daryeelka waayeelka", "adeegyada bulshada", "caawimada dhaqaalaha", "amniga",
			"evde bakım", "yaşlı bakımı", "sosyal hizmetler", "mali yardım", "güvenlik", "şiddet",
		},
		Urgent:     append(append([]string{}, urgentCommon...), "våld", "violence", "hot", "threats", "kris", "crisis"),
		Procedural: []string{"ansökan", "application", "ansök", "apply", "hur", "how", "hjälp", "help"},
		Hints:      []string{"Hemtjänst", "Ekonomiskt bistånd", "Trygghetsfrågor"},
	},
	{
		Name: "Jobb",
		Keywords: []string{
			"jobb", "arbete", "anställning", "arbetslös", "lediga tjänster", "karriär", "praktik", "kompetensutveckling",
			"job", "work", "employment", "unemployed", "available positions", "career", "internship", "skills development",
			"وظيفة", "عمل", "توظيف", "عاطل عن العمل", "مناصب متاحة", "مهنة",
			"shaqo", "shaqaale", "shaqo la'aan", "xirfado horumarinta",
			"iş", "çalışma", "istihdam", "işsiz", "açık pozisyonlar", "kariyer",
		},
		Urgent:     urgentCommon,
		Procedural: []string{"ansökan", "application", "ansök", "apply", "hur", "how", "söka", "search"},
	},
	{
		Name: "Sport-och-kultur",
		Keywords: []string{
			"sport", "idrott", "kultur", "aktivitet", "fritid", "träning", "bokning", "anläggning", "bibliotek", "evenemang",
			"culture", "activity", "leisure", "training", "booking", "facility", "library", "event",
			"رياضة", "ثقافة", "نشاط", "وقت فراغ", "تدريب", "حجز", "مرفق", "مكتبة",
			"ciyaaraha", "dhaqanka", "nashaad", "maktabad", "munaasabad",
			"spor", "kültür", "aktivite", "boş zaman", "antrenman", "rezervasyon", "kütüphane",
		},
		Urgent:     urgentCommon,
		Procedural: []string{"ansökan", "application", "ansök", "apply", "hur", "how", "boka", "book"},
	},
	{
		Name: "Trafik-och-parkering",
		Keywords: []string{
			"trafik", "parkering", "parkeringstillstånd", "väg", "gata", "kollektivtrafik", "cykelväg", "parkeringsbiljett",
			"traffic", "parking", "parking permit", "road", "street", "public transport", "bicycle path", "parking ticket",
			"مرور", "موقف سيارات", "تصريح وقوف", "طريق", "شارع", "نقل عام",
			"taraafikada", "meesha baabuurta", "ruqsadda meesha baabuurta", "waddo",
			"park etme", "park izni", "yol", "sokak", "toplu taşıma",
		},
		Urgent:     append(append([]string{}, urgentCommon...), "biljett", "ticket", "böter", "fine"),
		Procedural: []string{"ansökan", "application", "ansök", "apply", "hur", "how", "överklaga", "appeal"},
	},
	{
		Name: "Utbildning-vuxna",
		Keywords: []string{
			"komvux", "vuxenutbildning", "sfi", "svenska för invandrare", "yrkesutbildning", "studiemedel", "studievägledning",
			"adult education", "swedish for immigrants", "vocational training", "study financial aid", "study guidance",
			"تعليم الكبار", "السويدية للمهاجرين", "التدريب المهني", "مساعدة الدراسة",
			"waxbarashada dadka waaweyn", "af-soomaali loogu baro dadka cusub", "tababarka xirfadaha",
			"yetişkin eğitimi", "göçmenler için isveççe", "meslek eğitimi", "eğitim yardımı",
		},
		Urgent:     urgentCommon,
		Procedural: []string{"ansökan", "application", "ansök", "apply", "hur", "how", "anmäl", "register"},
	},
}

// serviceGroup is a human-staffed contact group on service.botkyrka.se
type serviceGroup struct {
	ID   int
	Name string
}

var serviceGroups = map[string]serviceGroup{
	"Förskola":             {12, "Skola och förskola"},
	"Grundskola":           {12, "Skola och förskola"},
	"Stöd-och-trygghet":    {15, "Stöd, omsorg och familj"},
	"Jobb":                 {14, "Jobb och vuxenutbildning"},
	"Utbildning-vuxna":     {14, "Jobb och vuxenutbildning"},
	"Trafik-och-parkering": {3, "Stadsplanering och trafik"},
	"Bygglov":              {5, "Boende och närmiljö"},
	"Boende-och-miljö":     {5, "Boende och närmiljö"},
	"Sport-och-kultur":     {13, "Uppleva och göra"},
}

// eServiceQueries are the already-encoded filter values of the e-service search page
var eServiceQueries = map[string]string{
	"Förskola":             "F%C3%B6rskola",
	"Grundskola":           "Grundskola",
	"Bygglov":              "Bygglov",
	"Boende-och-miljö":     "Boende%20och%20n%C3%A4rmilj%C3%B6",
	"Stöd-och-trygghet":    "St%C3%B6d%20och%20trygghet",
	"Jobb":                 "Jobb",
	"Sport-och-kultur":     "Kultur",
	"Trafik-och-parkering": "Stadsplanering%20och%20trafik",
	"Utbildning-vuxna":     "Utbildning%20f%C3%B6r%20vuxna",
}

var infoURLs = map[string]string{
	"Förskola":             "https://www.botkyrka.se/skola-och-forskola/barnomsorg-i-botkyrka/forskola",
	"Grundskola":           "https://www.botkyrka.se/skola-och-forskola/grundskola",
	"Bygglov":              "https://www.botkyrka.se/bo-och-leva/bygglov-och-tillstand",
	"Boende-och-miljö":     "https://www.botkyrka.se/bo-och-leva/miljo-och-hallbarhet",
	"Stöd-och-trygghet":    "https://www.botkyrka.se/stod-och-omsorg",
	"Jobb":                 "https://www.botkyrka.se/kommun-och-politik/jobba-i-botkyrka",
	"Sport-och-kultur":     "https://www.botkyrka.se/uppleva-och-gora",
	"Trafik-och-parkering": "https://www.botkyrka.se/bo-och-leva/trafik-och-parkering",
	"Utbildning-vuxna":     "https://www.botkyrka.se/skola-och-forskola/vuxenutbildning",
}

// searchTerms are the Swedish search words used when a category is known but
// the query itself yields no usable keywords. The first term is the primary one.
var searchTerms = map[string][]string{
	"Förskola":             {"förskola", "dagis", "barnomsorg"},
	"Grundskola":           {"grundskola", "skola", "skolor"},
	"Bygglov":              {"bygglov", "byggande", "byggtillstånd"},
	"Boende-och-miljö":     {"boende", "miljö", "avfall", "återvinning"},
	"Stöd-och-trygghet":    {"hemtjänst", "äldreomsorg", "trygghet"},
	"Jobb":                 {"jobb", "lediga tjänster", "karriär"},
	"Sport-och-kultur":     {"sport", "kultur", "aktiviteter"},
	"Trafik-och-parkering": {"parkering", "trafik", "transport"},
	"Utbildning-vuxna":     {"komvux", "sfi", "vuxenutbildning"},
}

const (
	eServiceBase   = "https://www.botkyrka.se/sjalvservice-och-blanketter"
	serviceGroupFn = "https://service.botkyrka.se/MenuGroup2.aspx?groupId=%d"
)

// Query-type keyword lists, checked in this order
var (
	urgentMarkers     = []string{"akut", "emergency", "brådskande", "urgent", "hjälp", "help", "kris", "crisis", "våld", "violence"}
	proceduralMarkers = []string{"hur", "how", "när", "when", "var", "where", "ansökan", "application", "ansök", "apply", "vilka handlingar", "documents"}
	contactMarkers    = []string{"kontakt", "contact", "ring", "call", "prata", "talk", "träffa", "meet", "personal", "hjälp", "help"}
)

var defaultHints = []string{"Kommunala tjänster", "E-tjänster", "Kontaktinformation"}
