package speech

import (
	"fmt"
	"strings"

	"github.com/matheuskafuri/newsvoice/internal/analysis"
)

type verdictKind int

const (
	predominantlyPositive verdictKind = iota
	significantConcerns
	cautiouslyPositive
	leansNegative
	mixedOrNeutral
)

// affix is the text around the anchor topic in a verdict sentence.
type affix struct{ prefix, suffix string }

var englishVerdicts = map[verdictKind]affix{
	predominantlyPositive: {"Coverage is predominantly positive. Positive news about ", " is particularly noteworthy."},
	significantConcerns:   {"Coverage shows significant concerns, particularly regarding ", "."},
	cautiouslyPositive:    {"Coverage is cautiously positive, with some concerns noted about ", "."},
	leansNegative:         {"Coverage leans negative, though there are some positive developments in ", "."},
	mixedOrNeutral:        {"Coverage is mixed or neutral, with balanced perspectives on ", "."},
}

// localized verdicts per language code. Languages with partial tables fall
// back to English for the missing kinds.
var verdictTranslations = map[string]map[verdictKind]affix{
	"te": {
		predominantlyPositive: {"వార్తలు ప్రధానంగా సానుకూలంగా ఉన్నాయి. ", " గురించి సానుకూల వార్తలు ప్రత్యేకంగా గమనార్హమైనవి."},
		significantConcerns:   {"వార్తలు గణనీయమైన ఆందోళనలను చూపిస్తున్నాయి, ముఖ్యంగా ", " విషయంలో."},
		cautiouslyPositive:    {"వార్తలు జాగ్రత్తగా సానుకూలంగా ఉన్నాయి, కొన్ని ఆందోళనలు ", " గురించి గమనించబడ్డాయి."},
		leansNegative:         {"వార్తలు ప్రతికూలంగా మొగ్గు చూపుతున్నాయి, అయినప్పటికీ ", " లో కొన్ని సానుకూల పరిణామాలు ఉన్నాయి."},
		mixedOrNeutral:        {"వార్తలు మిశ్రమంగా లేదా తటస్థంగా ఉన్నాయి, ", " పై సంతులిత దృక్కోణాలతో."},
	},
	"hi": {
		predominantlyPositive: {"कवरेज मुख्य रूप से सकारात्मक है। ", " के बारे में सकारात्मक खबरें विशेष रूप से उल्लेखनीय हैं।"},
		significantConcerns:   {"कवरेज महत्वपूर्ण चिंताओं को दर्शाता है, विशेष रूप से ", " के संबंध में।"},
		cautiouslyPositive:    {"कवरेज सावधानीपूर्वक सकारात्मक है, कुछ चिंताएं ", " के बारे में नोट की गई हैं।"},
		leansNegative:         {"कवरेज नकारात्मक झुकाव वाला है, हालांकि ", " में कुछ सकारात्मक विकास हैं।"},
		mixedOrNeutral:        {"कवरेज मिश्रित या तटस्थ है, ", " पर संतुलित दृष्टिकोण के साथ।"},
	},
	"ml": {
		predominantlyPositive: {"കവറേജ് പ്രധാനമായും പോസിറ്റീവാണ്. ", " എന്നതിനെക്കുറിച്ചുള്ള പോസിറ്റീവ് വാർത്തകൾ പ്രത്യേകിച്ച് ശ്രദ്ധേയമാണ്."},
	},
	"ta": {
		predominantlyPositive: {"உள்ளடக்கம் பெரும்பாலும் நேர்மறையானது. ", " பற்றிய நேர்மறை செய்திகள் குறிப்பிடத்தக்கவை."},
	},
	"kn": {
		predominantlyPositive: {"ವರದಿಯು ಪ್ರಮುಖವಾಗಿ ಸಕಾರಾತ್ಮಕವಾಗಿದೆ. ", " ಬಗ್ಗೆ ಸಕಾರಾತ್ಮಕ ಸುದ್ದಿಗಳು ವಿಶೇಷವಾಗಿ ಗಮನಾರ್ಹವಾಗಿವೆ."},
	},
}

// parseVerdict splits an English verdict into its kind and anchor topic.
func parseVerdict(verdict string) (verdictKind, string, bool) {
	for kind := predominantlyPositive; kind <= mixedOrNeutral; kind++ {
		a := englishVerdicts[kind]
		if strings.HasPrefix(verdict, a.prefix) && strings.HasSuffix(verdict, a.suffix) &&
			len(verdict) >= len(a.prefix)+len(a.suffix) {
			return kind, verdict[len(a.prefix) : len(verdict)-len(a.suffix)], true
		}
	}
	return 0, "", false
}

// TranslateVerdict renders an English verdict in the language with the
// given code. Unknown sentences and untranslated kinds come back unchanged.
func TranslateVerdict(verdict, code string) string {
	table, ok := verdictTranslations[code]
	if !ok {
		return verdict
	}
	kind, anchor, ok := parseVerdict(verdict)
	if !ok {
		return verdict
	}
	a, ok := table[kind]
	if !ok {
		return verdict
	}
	return a.prefix + anchor + a.suffix
}

// summaryLabels holds the fixed phrases of the spoken summary.
type summaryLabels struct {
	heading  string // %s is the company
	analyzed string // %d is the article count
	positive string
	negative string
	neutral  string
	overall  string
	topics   string
	noTopics string
}

var summaryText = map[string]summaryLabels{
	"en": {
		heading:  "News analysis for %s:",
		analyzed: "We have analyzed %d news articles.",
		positive: "Positive articles",
		negative: "Negative articles",
		neutral:  "Neutral articles",
		overall:  "Overall analysis",
		topics:   "Main topics",
		noTopics: "No common topics found",
	},
	"hi": {
		heading:  "%s के बारे में समाचार विश्लेषण:",
		analyzed: "हमने %d समाचार लेखों का विश्लेषण किया है।",
		positive: "सकारात्मक लेख",
		negative: "नकारात्मक लेख",
		neutral:  "तटस्थ लेख",
		overall:  "समग्र विश्लेषण",
		topics:   "मुख्य विषय",
		noTopics: "कोई सामान्य विषय नहीं मिला",
	},
	"te": {
		heading:  "%s గురించి వార్తా విశ్లేషణ:",
		analyzed: "మేము %d వార్తా కథనాలను విశ్లేషించాము.",
		positive: "సానుకూల వార్తలు",
		negative: "ప్రతికూల వార్తలు",
		neutral:  "తటస్థ వార్తలు",
		overall:  "మొత్తం విశ్లేషణ",
		topics:   "ప్రధాన అంశాలు",
		noTopics: "సామాన్య అంశాలు కనుగొనబడలేదు",
	},
	"ml": {
		heading:  "%s എന്നതിനെക്കുറിച്ചുള്ള വാർത്താ വിശകലനം:",
		analyzed: "ഞങ്ങൾ %d വാർത്താ ലേഖനങ്ങൾ വിശകലനം ചെയ്തു.",
		positive: "പോസിറ്റീവ് ലേഖനങ്ങൾ",
		negative: "നെഗറ്റീവ് ലേഖനങ്ങൾ",
		neutral:  "നിഷ്പക്ഷ ലേഖനങ്ങൾ",
		overall:  "സമഗ്ര വിശകലനം",
		topics:   "പ്രധാന വിഷയങ്ങൾ",
		noTopics: "പൊതുവായ വിഷയങ്ങളൊന്നും കണ്ടെത്തിയില്ല",
	},
	"ta": {
		heading:  "%s பற்றிய செய்தி பகுப்பாய்வு:",
		analyzed: "நாங்கள் %d செய்தி கட்டுரைகளை ஆய்வு செய்துள்ளோம்.",
		positive: "நேர்மறை கட்டுரைகள்",
		negative: "எதிர்மறை கட்டுரைகள்",
		neutral:  "நடுநிலை கட்டுரைகள்",
		overall:  "ஒட்டுமொத்த பகுப்பாய்வு",
		topics:   "முக்கிய தலைப்புகள்",
		noTopics: "பொதுவான தலைப்புகள் எதுவும் கண்டுபிடிக்கப்படவில்லை",
	},
	"kn": {
		heading:  "%s ಕುರಿತು ಸುದ್ದಿ ವಿಶ್ಲೇಷಣೆ:",
		analyzed: "ನಾವು %d ಸುದ್ದಿ ಲೇಖನಗಳನ್ನು ವಿಶ್ಲೇಷಿಸಿದ್ದೇವೆ.",
		positive: "ಸಕಾರಾತ್ಮಕ ಲೇಖನಗಳು",
		negative: "ನಕಾರಾತ್ಮಕ ಲೇಖನಗಳು",
		neutral:  "ತಟಸ್ಥ ಲೇಖನಗಳು",
		overall:  "ಒಟ್ಟಾರೆ ವಿಶ್ಲೇಷಣೆ",
		topics:   "ಪ್ರಮುಖ ವಿಷಯಗಳು",
		noTopics: "ಯಾವುದೇ ಸಾಮಾನ್ಯ ವಿಷಯಗಳು ಕಂಡುಬಂದಿಲ್ಲ",
	},
}

const maxSummaryTopics = 3

// Summary renders the spoken summary of d in lang. Unknown languages use
// English.
func Summary(d *analysis.Digest, lang Language) string {
	labels, ok := summaryText[lang.Code]
	if !ok {
		labels = summaryText["en"]
	}

	common := d.Report.TopicOverlap.CommonTopics
	topics := labels.noTopics
	if len(common) > 0 {
		if len(common) > maxSummaryTopics {
			common = common[:maxSummaryTopics]
		}
		topics = strings.Join(common, ", ")
	}

	dist := d.Report.Distribution
	lines := []string{
		fmt.Sprintf(labels.heading, d.Company),
		"",
		fmt.Sprintf(labels.analyzed, len(d.Articles)),
		"",
		fmt.Sprintf("%s: %d", labels.positive, dist.Positive),
		fmt.Sprintf("%s: %d", labels.negative, dist.Negative),
		fmt.Sprintf("%s: %d", labels.neutral, dist.Neutral),
		"",
		fmt.Sprintf("%s: %s", labels.overall, TranslateVerdict(d.FinalSentiment, lang.Code)),
		"",
		fmt.Sprintf("%s: %s", labels.topics, topics),
	}
	return strings.Join(lines, "\n")
}
