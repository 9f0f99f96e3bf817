package auth

import "strings"

// User-facing text is Arabic, matching the platform's audience.
const (
	msgEmailPasswordRequired = "البريد الإلكتروني وكلمة المرور مطلوبان"
	msgEmailRequired         = "البريد الإلكتروني مطلوب"
	msgEmailInvalid          = "صيغة البريد الإلكتروني غير صحيحة"
	msgPasswordRequired      = "كلمة المرور مطلوبة"
	msgPasswordTooShort      = "كلمة المرور يجب أن تكون 6 أحرف على الأقل"
	msgNameRequired          = "الاسم مطلوب"
	msgNameTooShort          = "الاسم يجب أن يكون على الأقل حرفين"
	msgPhoneRequired         = "رقم الهاتف مطلوب"
	msgPhoneInvalid          = "رقم الهاتف يجب أن يكون بين 10 و 15 رقماً"
	msgEmailAlreadyUsed      = "البريد الإلكتروني مستخدم بالفعل"
	msgSignOutFailed         = "خطأ أثناء تسجيل الخروج"
	msgInvalidData           = "بيانات غير صالحة"
)

// remoteMessages maps known backend error messages to localized text.
// Unknown messages fall through untranslated.
var remoteMessages = map[string]string{
	"Invalid login credentials":                "بيانات تسجيل الدخول غير صحيحة",
	"Email not confirmed":                      "البريد الإلكتروني لم يتم تأكيده بعد",
	"Too many requests":                        "محاولات كثيرة جداً، حاول مرة أخرى لاحقاً",
	"User not found":                           "المستخدم غير موجود",
	"User already registered":                  msgEmailAlreadyUsed,
	"duplicate key":                            msgEmailAlreadyUsed,
	"Database error":                           "خطأ في قاعدة البيانات، يرجى المحاولة لاحقاً",
	"Password should be at least 6 characters": msgPasswordTooShort,
	"Unable to validate email address":         "عنوان البريد الإلكتروني غير صالح",
}

// Localize returns the user-facing message for a backend error, falling
// back to the raw message when no translation is known.
func Localize(err error) string {
	raw := err.Error()
	if msg, ok := remoteMessages[raw]; ok {
		return msg
	}
	if strings.Contains(raw, "already registered") || strings.Contains(raw, "duplicate") {
		return msgEmailAlreadyUsed
	}
	return raw
}
