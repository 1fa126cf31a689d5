package handlers

var messages = map[string]map[string]string{
	"bad_request": {
		"en": "The request is invalid.",
		"ar": "الطلب غير صالح.",
		"he": "הבקשה אינה תקינה.",
	},
	"unauthorized": {
		"en": "Sign in to continue.",
		"ar": "سجّل الدخول للمتابعة.",
		"he": "יש להתחבר כדי להמשיך.",
	},
	"quota_exceeded": {
		"en": "You do not have enough credits for this request.",
		"ar": "ليس لديك رصيد كافٍ لهذا الطلب.",
		"he": "אין לך מספיק קרדיטים לבקשה זו.",
	},
	"duplicate_operation": {
		"en": "This request was already submitted.",
		"ar": "تم إرسال هذا الطلب مسبقًا.",
		"he": "הבקשה הזו כבר נשלחה.",
	},
	"not_found": {
		"en": "Not found.",
		"ar": "غير موجود.",
		"he": "לא נמצא.",
	},
	"capacity": {
		"en": "The design service is busy. Please try again shortly.",
		"ar": "خدمة التصميم مشغولة. يرجى المحاولة بعد قليل.",
		"he": "שירות העיצוב עמוס. נסו שוב בעוד רגע.",
	},
	"generation_failed": {
		"en": "We could not generate a poster this time.",
		"ar": "تعذّر إنشاء الملصق هذه المرة.",
		"he": "לא הצלחנו ליצור פוסטר הפעם.",
	},
	"superseded": {
		"en": "A newer generation replaced this one.",
		"ar": "تم استبدال هذا الطلب بطلب أحدث.",
		"he": "בקשה חדשה יותר החליפה את זו.",
	},
	"internal": {
		"en": "Something went wrong.",
		"ar": "حدث خطأ ما.",
		"he": "משהו השתבש.",
	},
}

func localizedMessage(locale, code string) string {
	byLocale, ok := messages[code]
	if !ok {
		byLocale = messages["internal"]
	}
	if msg, ok := byLocale[locale]; ok {
		return msg
	}
	return byLocale["en"]
}
