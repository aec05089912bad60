// Package i18n renders user-facing text in English or Chinese
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/balkashynov/tempus/internal/models"
	"github.com/balkashynov/tempus/internal/prefs"
)

// Message keys
const (
	KeyAppTitle       = "appTitle"
	KeyChatCapture    = "chatCapture"
	KeyMatrixView     = "matrixView"
	KeyImportant      = "important"
	KeyUrgent         = "urgent"
	KeyTypeTask       = "typeTask"
	KeyNoTasks        = "noTasks"
	KeyAddSubTask     = "addSubTask"
	KeyAssistantIntro = "assistantIntro"
	KeyAssistantAdded = "assistantAdded"
	KeyLight          = "light"
	KeyDark           = "dark"
	KeyDegraded       = "degraded"
)

var entries = map[prefs.Language]map[string]string{
	prefs.LanguageEnglish: {
		KeyAppTitle:       "Time Waits For No One",
		KeyChatCapture:    "Chat Capture",
		KeyMatrixView:     "Matrix View",
		KeyImportant:      "Important",
		KeyUrgent:         "Urgent",
		KeyTypeTask:       "Type a new task...",
		KeyNoTasks:        "No tasks",
		KeyAddSubTask:     "Add sub-task...",
		KeyAssistantIntro: "Hello! What needs to be done today?",
		KeyAssistantAdded: "Got it. I've added \"%s\" to %s.",
		KeyLight:          "Day",
		KeyDark:           "Night",
		KeyDegraded:       "Changes may not be saved",

		"title.q1": "DO FIRST",
		"title.q2": "SCHEDULE",
		"title.q3": "DELEGATE",
		"title.q4": "ELIMINATE",
		"label.q1": "Do First (Important & Urgent)",
		"label.q2": "Schedule (Important & Not Urgent)",
		"label.q3": "Delegate (Not Important & Urgent)",
		"label.q4": "Eliminate (Not Important & Not Urgent)",
	},
	prefs.LanguageChinese: {
		KeyAppTitle:       "时不我待",
		KeyChatCapture:    "对话捕捉",
		KeyMatrixView:     "矩阵视图",
		KeyImportant:      "重要",
		KeyUrgent:         "紧急",
		KeyTypeTask:       "输入新任务...",
		KeyNoTasks:        "暂无任务",
		KeyAddSubTask:     "添加子任务...",
		KeyAssistantIntro: "你好！今天有什么待办事项？",
		KeyAssistantAdded: "收到。已将 \"%s\" 添加到 %s。",
		KeyLight:          "白天",
		KeyDark:           "晚上",
		KeyDegraded:       "更改可能未保存",

		"title.q1": "先做",
		"title.q2": "计划",
		"title.q3": "委派",
		"title.q4": "删除",
		"label.q1": "先做 (重要且紧急)",
		"label.q2": "计划 (重要但不紧急)",
		"label.q3": "委派 (不重要但紧急)",
		"label.q4": "删除 (不重要且不紧急)",
	},
}

var (
	tags = map[prefs.Language]language.Tag{
		prefs.LanguageEnglish: language.English,
		prefs.LanguageChinese: language.Chinese,
	}
	supported = []prefs.Language{prefs.LanguageEnglish, prefs.LanguageChinese}
	matcher   = language.NewMatcher([]language.Tag{language.English, language.Chinese})
	cat       = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Chinese))
	for lang, msgs := range entries {
		for key, msg := range msgs {
			if err := b.SetString(tags[lang], key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Printer returns a printer for lang, falling back to Chinese for anything unknown
func Printer(lang prefs.Language) *message.Printer {
	tag, ok := tags[lang]
	if !ok {
		tag = language.Chinese
	}
	return message.NewPrinter(tag, message.Catalog(cat))
}

// T looks up a plain message
func T(lang prefs.Language, key string) string {
	return Printer(lang).Sprintf(key)
}

// QuadrantTitle is the short board heading, e.g. "DO FIRST"
func QuadrantTitle(lang prefs.Language, q models.Quadrant) string {
	return T(lang, "title."+string(q))
}

// QuadrantLabel is the long form, e.g. "Do First (Important & Urgent)"
func QuadrantLabel(lang prefs.Language, q models.Quadrant) string {
	return T(lang, "label."+string(q))
}

// Negotiate picks the best supported language for an Accept-Language header.
// ok is false when the header names nothing usable.
func Negotiate(acceptLanguage string) (prefs.Language, bool) {
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return "", false
	}
	_, index, confidence := matcher.Match(desired...)
	if confidence == language.No {
		return "", false
	}
	return supported[index], true
}

// Ack is what the capture surface shows after a task was created
type Ack struct {
	Text     string          `json:"text"`
	Quadrant models.Quadrant `json:"quadrant"`
	Label    string          `json:"label"`
	Message  string          `json:"message"`
}

// Acknowledge builds the confirmation for a freshly created task
func Acknowledge(task models.Task, lang prefs.Language) Ack {
	q := task.Quadrant()
	label := QuadrantLabel(lang, q)
	return Ack{
		Text:     task.Text,
		Quadrant: q,
		Label:    label,
		Message:  Printer(lang).Sprintf(KeyAssistantAdded, task.Text, label),
	}
}
