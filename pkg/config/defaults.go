package config

import (
	"slices"
	"sort"
	"time"
)

// Default values for configuration.
const (
	DefaultLocale           = "es"
	DefaultLogLevel         = "WARN"
	DefaultTopEmojis        = 15
	DefaultTopSenders       = 10
	DefaultTopWords         = 100
	DefaultTopLinks         = 10
	DefaultPreviewWidth     = 200
	DefaultWebhookTimeout   = 10 * time.Second
	DefaultTimestampPattern = `\d{2}/\d{2}/\d{2}, \d{2}:\d{2}:\d{2}`
	DefaultTimestampLayout  = "02/01/06, 15:04:05"
	DefaultSenderPrefix     = "~ "
	DefaultSystemSender     = "System"
)

// EnvPrefix is the prefix of every environment override (CHATSTAT_LOG_LEVEL, ...).
const EnvPrefix = "CHATSTAT"

// englishStopwords is the common English filler vocabulary. Every built-in
// locale drops it, since chats mix English into other languages.
var englishStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and",
	"any", "are", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "could", "did", "do", "does", "doing", "down",
	"during", "each", "else", "ever", "few", "for", "from", "further", "get", "had", "has",
	"have", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his",
	"how", "however", "i", "if", "in", "into", "is", "it", "its", "itself", "just", "me",
	"more", "most", "my", "myself", "no", "nor", "not", "of", "off", "on", "once", "only",
	"or", "other", "otherwise", "ought", "our", "ours", "ourselves", "out", "over", "own",
	"same", "shall", "she", "should", "since", "so", "some", "such", "than", "that", "the",
	"their", "theirs", "them", "themselves", "then", "there", "these", "they", "this",
	"those", "through", "to", "too", "under", "until", "up", "very", "was", "we", "were",
	"what", "when", "where", "which", "while", "who", "whom", "why", "with", "would",
	"you", "your", "yours", "yourself", "yourselves",
}

var builtinLocales = map[string]LocaleConfig{
	"es": {
		Name:             "es",
		Language:         "es",
		TimestampPattern: DefaultTimestampPattern,
		TimestampLayout:  DefaultTimestampLayout,
		SenderPrefix:     DefaultSenderPrefix,
		SystemSender:     DefaultSystemSender,
		NoticePhrases: []string{
			"creó este grupo",
			"se unió usando el enlace",
			"Te uniste mediante el enlace",
			"mensajes y las llamadas están cifrados",
			"añadió a",
			"cambió los ajustes",
			"activó los mensajes temporales",
			"activó la aprobación",
		},
		MultimediaPhrases: []string{
			"sticker omitido",
			"video omitido",
			"imagen omitida",
			"audio omitido",
			"gif omitido",
			"<Multimedia omitido>",
		},
		PollMarker:      "ENCUESTA:",
		DeletedSentinel: "Se eliminó este mensaje.",
		WeekdayLabels:   []string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"},
		MonthLabels: []string{
			"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
			"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
		},
		Stopwords: slices.Concat([]string{
			"que", "qué", "con", "de", "la", "el", "en", "y", "o", "un", "una", "unos", "unas",
			"los", "las", "del", "al", "se", "su", "sus", "ya", "pero", "por", "para", "como",
			"más", "mas", "este", "esta", "eso", "esos", "esas", "si", "sí", "no", "ni",
			"me", "te", "le", "nos", "os", "les", "mi", "mis", "tu", "tus", "él", "ella",
			"ellos", "ellas", "nosotros", "nosotras", "vosotros", "vosotras", "usted", "ustedes",
			"sticker", "omitido", "video", "imagen", "audio", "gif", "multimedia", "mensaje",
			"eliminó", "jaja", "jajaja", "jajajaja", "xd", "https", "http", "www", "com", "pe", "es",
			"q", "k", "d", "x", "a", "e", "i", "u", "va", "solo", "pues", "ahí", "asi", "así", "ah", "ok",
			"gracias", "porfa", "hola", "holii", "enserio", "verdad", "entonces", "bueno", "listo",
			"tambien", "también", "pasar", "guau", "roten",
		}, englishStopwords),
	},
	"en": {
		Name:             "en",
		Language:         "en",
		TimestampPattern: DefaultTimestampPattern,
		TimestampLayout:  DefaultTimestampLayout,
		SenderPrefix:     DefaultSenderPrefix,
		SystemSender:     DefaultSystemSender,
		NoticePhrases: []string{
			"created this group",
			"created group",
			"joined using this group's invite link",
			"joined using invite link",
			"Messages and calls are end-to-end encrypted",
			"messages and calls are end-to-end encrypted",
			"added",
			"changed settings",
			"changed this group's settings",
			"turned on disappearing messages",
			"turned on admin approval",
		},
		MultimediaPhrases: []string{
			"sticker omitted",
			"video omitted",
			"image omitted",
			"audio omitted",
			"gif omitted",
			"<Media omitted>",
		},
		PollMarker:      "POLL:",
		DeletedSentinel: "This message was deleted.",
		WeekdayLabels:   []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		MonthLabels: []string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		Stopwords: slices.Concat(englishStopwords, []string{
			"yes", "ok", "lol", "haha", "https", "http", "www", "com", "omitted", "sticker",
			"image", "video", "audio", "gif", "media", "deleted", "message",
		}),
	},
}

// BuiltinLocale returns a copy of a built-in locale table.
func BuiltinLocale(name string) (LocaleConfig, bool) {
	l, ok := builtinLocales[name]
	if !ok {
		return LocaleConfig{}, false
	}
	l.NoticePhrases = slices.Clone(l.NoticePhrases)
	l.MultimediaPhrases = slices.Clone(l.MultimediaPhrases)
	l.WeekdayLabels = slices.Clone(l.WeekdayLabels)
	l.MonthLabels = slices.Clone(l.MonthLabels)
	l.Stopwords = slices.Clone(l.Stopwords)
	return l, true
}

// BuiltinLocaleNames returns the names of the built-in locales, sorted.
func BuiltinLocaleNames() []string {
	names := make([]string, 0, len(builtinLocales))
	for name := range builtinLocales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	locale, _ := BuiltinLocale(DefaultLocale)
	return &Config{
		LocaleName: DefaultLocale,
		Locale:     locale,
		Report: ReportConfig{
			TopEmojis:    DefaultTopEmojis,
			TopSenders:   DefaultTopSenders,
			TopWords:     DefaultTopWords,
			TopLinks:     DefaultTopLinks,
			PreviewWidth: DefaultPreviewWidth,
		},
		LogLevel: DefaultLogLevel,
	}
}
