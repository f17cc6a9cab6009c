// Package i18n holds the UI strings for the two supported locales.
package i18n

import (
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

// Strings is one locale's translation table.
type Strings struct {
	HeaderTitle                  string `json:"headerTitle"`
	HeaderSubtitle               string `json:"headerSubtitle"`
	MedicationInputTitle         string `json:"medicationInputTitle"`
	MedicationInputSubtitle      string `json:"medicationInputSubtitle"`
	MedicationInputPlaceholder   string `json:"medicationInputPlaceholder"`
	AddButton                    string `json:"addButton"`
	AnalyzeButton                string `json:"analyzeButton"`
	StartNewAnalysis             string `json:"startNewAnalysis"`
	InteractionsTab              string `json:"interactionsTab"`
	MedicationDetailsPlaceholder string `json:"medicationDetailsPlaceholder"`
	NoInteractionsTitle          string `json:"noInteractionsTitle"`
	NoInteractionsBody           string `json:"noInteractionsBody"`
	InteractionSuffix            string `json:"interactionSuffix"`
	IndicationsTitle             string `json:"indicationsTitle"`
	MethodOfUseTitle             string `json:"methodOfUseTitle"`
	SideEffectsTitle             string `json:"sideEffectsTitle"`
	DosageTitle                  string `json:"dosageTitle"`
	NoSideEffects                string `json:"noSideEffects"`
	LoadingAnalysis              string `json:"loadingAnalysis"`
	LoadingImages                string `json:"loadingImages"`
	LoadingSubtext               string `json:"loadingSubtext"`
	WelcomeTitle                 string `json:"welcomeTitle"`
	WelcomeBody                  string `json:"welcomeBody"`
	ImageLoading                 string `json:"imageLoading"`
	ImageReady                   string `json:"imageReady"`
	ImageNotAvailable            string `json:"imageNotAvailable"`
	ImageSaved                   string `json:"imageSaved"`
	HistoryTitle                 string `json:"historyTitle"`
	HistoryEmpty                 string `json:"historyEmpty"`
	ClearAll                     string `json:"clearAll"`
	SwitchToArabic               string `json:"switchToArabic"`
	SwitchToEnglish              string `json:"switchToEnglish"`
	DisclaimerTitle              string `json:"disclaimerTitle"`
	DisclaimerP1                 string `json:"disclaimerP1"`
	DisclaimerP2                 string `json:"disclaimerP2"`
	DisclaimerP3                 string `json:"disclaimerP3"`
	DisclaimerButton             string `json:"disclaimerButton"`
	ErrorNoMedications           string `json:"errorNoMedications"`
	ErrorAnalysis                string `json:"errorAnalysis"`
}

var english = Strings{
	HeaderTitle:                  "Medication Analyzer Pro",
	HeaderSubtitle:               "AI-Powered Insights by a Virtual Physician",
	MedicationInputTitle:         "Enter Medications",
	MedicationInputSubtitle:      "Type a medication name to add it for analysis.",
	MedicationInputPlaceholder:   "Type or select a medication...",
	AddButton:                    "Add",
	AnalyzeButton:                "Analyze Medications",
	StartNewAnalysis:             "Start New Analysis",
	InteractionsTab:              "Interactions",
	MedicationDetailsPlaceholder: "View Medication Details...",
	NoInteractionsTitle:          "No Interactions Found",
	NoInteractionsBody:           "Based on the provided list, no significant interactions were identified. Always consult a healthcare professional.",
	InteractionSuffix:            "Interaction",
	IndicationsTitle:             "Indications for Use",
	MethodOfUseTitle:             "Method of Use",
	SideEffectsTitle:             "Common Side Effects",
	DosageTitle:                  "Dosage Information",
	NoSideEffects:                "No common side effects listed.",
	LoadingAnalysis:              "Consulting virtual physician for analysis...",
	LoadingImages:                "Generating medication visuals...",
	LoadingSubtext:               "This may take a moment. Thank you for your patience.",
	WelcomeTitle:                 "Welcome to the Analysis Center",
	WelcomeBody:                  "Add medications on the left and press \"Analyze\" to get a detailed, AI-powered report from our virtual physician.",
	ImageLoading:                 "Loading Image...",
	ImageReady:                   "Image ready",
	ImageNotAvailable:            "Image not available",
	ImageSaved:                   "Image saved to",
	HistoryTitle:                 "Analysis History",
	HistoryEmpty:                 "No past analyses yet.",
	ClearAll:                     "Clear All",
	SwitchToArabic:               "العربية",
	SwitchToEnglish:              "English",
	DisclaimerTitle:              "Important Medical Disclaimer",
	DisclaimerP1:                 "This tool uses a generative AI model to provide information about medications and their interactions.",
	DisclaimerP2:                 "The information provided is for educational and informational purposes ONLY and is NOT a substitute for professional medical advice, diagnosis, or treatment.",
	DisclaimerP3:                 "Never disregard professional medical advice or delay in seeking it because of something you have read on this application. Always consult with your doctor or another qualified healthcare provider with any questions you may have regarding a medical condition or treatment.",
	DisclaimerButton:             "I Understand and Accept",
	ErrorNoMedications:           "Please add at least one medication to analyze.",
	ErrorAnalysis:                "An error occurred during analysis. The AI may be experiencing high traffic. Please try again later.",
}

var arabic = Strings{
	HeaderTitle:                  "محلل الأدوية الاحترافي",
	HeaderSubtitle:               "رؤى مدعومة بالذكاء الاصطناعي من طبيب افتراضي",
	MedicationInputTitle:         "أدخل الأدوية",
	MedicationInputSubtitle:      "اكتب اسم الدواء لإضافته للتحليل.",
	MedicationInputPlaceholder:   "اكتب أو اختر دواء...",
	AddButton:                    "إضافة",
	AnalyzeButton:                "تحليل الأدوية",
	StartNewAnalysis:             "بدء تحليل جديد",
	InteractionsTab:              "التفاعلات",
	MedicationDetailsPlaceholder: "عرض تفاصيل الدواء...",
	NoInteractionsTitle:          "لم يتم العثور على تفاعلات",
	NoInteractionsBody:           "بناءً على القائمة المقدمة، لم يتم تحديد أي تفاعلات دوائية مهمة. استشر دائمًا أخصائي رعاية صحية.",
	InteractionSuffix:            "تفاعل",
	IndicationsTitle:             "دواعي الاستعمال",
	MethodOfUseTitle:             "طريقة الاستخدام",
	SideEffectsTitle:             "الآثار الجانبية الشائعة",
	DosageTitle:                  "معلومات الجرعة",
	NoSideEffects:                "لا توجد آثار جانبية شائعة مدرجة.",
	LoadingAnalysis:              "جاري استشارة الطبيب الافتراضي للتحليل...",
	LoadingImages:                "جاري إنشاء صور الأدوية...",
	LoadingSubtext:               "قد يستغرق هذا بعض الوقت. شكرا لك على صبرك.",
	WelcomeTitle:                 "مرحبًا بك في مركز التحليل",
	WelcomeBody:                  "أضف الأدوية على اليسار واضغط \"تحليل\" للحصول على تقرير مفصل مدعوم بالذكاء الاصطناعي من طبيبنا الافتراضي.",
	ImageLoading:                 "جاري تحميل الصورة...",
	ImageReady:                   "الصورة جاهزة",
	ImageNotAvailable:            "الصورة غير متوفرة",
	ImageSaved:                   "تم حفظ الصورة في",
	HistoryTitle:                 "سجل التحليلات",
	HistoryEmpty:                 "لا توجد تحليلات سابقة بعد.",
	ClearAll:                     "مسح الكل",
	SwitchToArabic:               "العربية",
	SwitchToEnglish:              "English",
	DisclaimerTitle:              "إخلاء مسؤولية طبي مهم",
	DisclaimerP1:                 "تستخدم هذه الأداة نموذج ذكاء اصطناعي توليدي لتقديم معلومات حول الأدوية وتفاعلاتها.",
	DisclaimerP2:                 "المعلومات المقدمة هي لأغراض تعليمية وإعلامية فقط وليست بديلاً عن الاستشارة الطبية المتخصصة أو التشخيص أو العلاج.",
	DisclaimerP3:                 "لا تتجاهل أبدًا المشورة الطبية المتخصصة أو تتأخر في طلبها بسبب شيء قرأته في هذا التطبيق. استشر دائمًا طبيبك أو مقدم رعاية صحية مؤهل آخر بشأن أي أسئلة قد تكون لديك بخصوص حالة طبية أو علاج.",
	DisclaimerButton:             "أفهم وأوافق",
	ErrorNoMedications:           "يرجى إضافة دواء واحد على الأقل للتحليل.",
	ErrorAnalysis:                "حدث خطأ أثناء التحليل. قد يواجه الذكاء الاصطناعي ضغطًا كبيرًا. يرجى المحاولة مرة أخرى لاحقًا.",
}

// For returns the table for lang, defaulting to English.
func For(lang model.Language) Strings {
	if lang == model.Arabic {
		return arabic
	}
	return english
}

// Tag maps a UI language to its BCP 47 tag.
func Tag(lang model.Language) language.Tag {
	if lang == model.Arabic {
		return language.Arabic
	}
	return language.English
}

// RTL reports whether text in lang runs right to left.
func RTL(lang model.Language) bool {
	return lang == model.Arabic
}

// Direction is the document direction attribute for lang.
func Direction(lang model.Language) string {
	if RTL(lang) {
		return "rtl"
	}
	return "ltr"
}

// SelfName is the language's name in its own script, e.g. "العربية".
func SelfName(lang model.Language) string {
	return display.Self.Name(Tag(lang))
}

// SwitchLabel is the label of the toggle that leaves lang.
func (s Strings) SwitchLabel(current model.Language) string {
	if current == model.English {
		return s.SwitchToArabic
	}
	return s.SwitchToEnglish
}

// ErrorText turns an orchestrator error into the single user-facing message for it.
func (s Strings) ErrorText(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, model.ErrNoMedications) {
		return s.ErrorNoMedications
	}
	return s.ErrorAnalysis
}
