package postprocess

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "separator heading on its own line",
			in:   "Här är informationen.\n--- ### **Kontakt:**\nRing 08-530 610 00",
			want: "Här är informationen.\n\n**Kontakt:**\n\nRing 08-530 610 00",
		},
		{
			name: "separator heading with inline body",
			in:   "Text --- ### **Kontakt:** Ring oss",
			want: "Text\n\n**Kontakt:**\n\nRing oss",
		},
		{
			name: "hash heading",
			in:   "## Hur ansöker jag?\nGå till e-tjänsten.",
			want: "**Hur ansöker jag?**\n\nGå till e-tjänsten.",
		},
		{
			name: "triple bold",
			in:   "***Viktigt:*** ansök före 1 mars",
			want: "**Viktigt:** ansök före 1 mars",
		},
		{
			name: "many asterisks",
			in:   "*****Obs*****",
			want: "**Obs**",
		},
		{
			name: "bullets normalized",
			in:   "Du behöver:\n- ID-handling\n* Personnummer\n  · Adress",
			want: "Du behöver:\n• ID-handling\n• Personnummer\n• Adress",
		},
		{
			name: "fully bold bullet",
			in:   "• **Hammerstaskolan**\n• **Alby skola**",
			want: "• Hammerstaskolan\n• Alby skola",
		},
		{
			name: "contact labels",
			in:   "** Telefon : ** 08-530 610 00\n**E-post:** kontaktcenter@botkyrka.se",
			want: "**Telefon:** 08-530 610 00\n**E-post:** kontaktcenter@botkyrka.se",
		},
		{
			name: "horizontal rule",
			in:   "Första delen\n---\nAndra delen",
			want: "Första delen\n\nAndra delen",
		},
		{
			name: "blank lines collapsed",
			in:   "Ett\n\n\n\n\n\nTvå",
			want: "Ett\n\n\nTvå",
		},
		{
			name: "whitespace",
			in:   "  Hej   där \t!  \n   Rad två  ",
			want: "Hej där !\nRad två",
		},
		{
			name: "numbered steps untouched",
			in:   "1. Logga in\n2. Fyll i formuläret",
			want: "1. Logga in\n2. Fyll i formuläret",
		},
		{
			name: "consecutive headings",
			in:   "**Förskola:**\n**Ansökan:**\nAnsök via e-tjänsten.",
			want: "**Förskola:**\n\n**Ansökan:**\n\nAnsök via e-tjänsten.",
		},
		{
			name: "crlf",
			in:   "**Rubrik:**\r\nText",
			want: "**Rubrik:**\n\nText",
		},
		{
			name: "empty",
			in:   "  \n ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestCleanKontaktScenario(t *testing.T) {
	got := Clean("Rektor är Anna Andersson. --- ### **Kontakt:**\nAnna nås på telefon.")

	assert.NotContains(t, got, "---")
	assert.NotContains(t, got, "###")
	assert.Contains(t, got, "\n**Kontakt:**\n\n")
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Hej",
		"--- ### **Kontakt:**",
		"Text --- ### **Kontakt:** Ring oss --- ## Adress\nStorgatan 1",
		"### Rubrik\n\n\n\n\nBrödtext ***fet*** text\n- punkt\n* punkt\n\t▪ punkt",
		"**A**\n**B**\n**C**\nD",
		"** Telefon : **08\n** E-post :** a@b.se\n**Adress: ** Storgatan",
		"###\n### \n####### sju\n#hashtag",
		"• **Helt fet**\n•    dubbla   mellanslag\n- **Fet:** och text",
		"* * *\n---\n- - -\n----- ### x",
		"### * **x\n### **A** ### B",
		"Rad med avslutande mellanslag   \n   \n\n\n\nSlut",
		"**Hammerstaskolan** Är en skola i Hallunda.",
		"1. Steg\n2. Steg\n\n**Kontaktinformation:**\n\n**Telefon:** 08-530 610 00\n**E-post:** info@botkyrka.se",
		"\r\n### Windows\r\nrad\r",
		strings.Repeat("***---###   \n", 20),
		"#### **Rubrik utan avslut\ntext**",
		"*kursiv* och **fet** och ***båda***",
	}

	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "not idempotent for %q", in)
	}
}

func TestCleanRemovesForbiddenMarkup(t *testing.T) {
	in := "--- ### **Förskola:**\n### Ansökan\n---\n***Obs***"

	got := Clean(in)

	assert.NotContains(t, got, "---")
	assert.NotContains(t, got, "###")
	assert.NotContains(t, got, "***")
}
