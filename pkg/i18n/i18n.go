package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys used by the UI and the error banners
const (
	MsgTitle             = "title"
	MsgSubtitle          = "subtitle"
	MsgInputHeading      = "input.heading"
	MsgOutputHeading     = "output.heading"
	MsgStartDate         = "dates.start"
	MsgEndDate           = "dates.end"
	MsgSaveDates         = "dates.save"
	MsgPersonnel         = "personnel.label"
	MsgPersonnelHint     = "personnel.placeholder"
	MsgShifts            = "shifts.label"
	MsgShiftsHint        = "shifts.placeholder"
	MsgConstraints       = "constraints.label"
	MsgConstraintsHint   = "constraints.placeholder"
	MsgSaveConstraints   = "constraints.save"
	MsgAdd               = "add"
	MsgRemove            = "remove"
	MsgGenerate          = "generate"
	MsgGenerating        = "generating"
	MsgDate              = "table.date"
	MsgNoStaff           = "table.nostaff"
	MsgEmptyTitle        = "empty.title"
	MsgEmptyHint         = "empty.hint"
	MsgDownloadCSV       = "download.csv"
	MsgReviewHeading     = "review.heading"
	MsgFairness          = "review.fairness"
	MsgValidationMissing = "error.validation"
	MsgGenerationFailed  = "error.generation"
)

// Supported lists the UI languages; the first entry is the fallback.
var Supported = []language.Tag{language.English, language.Thai}

var matcher = language.NewMatcher(Supported)

var catalog = map[language.Tag]map[string]string{
	language.English: {
		MsgTitle:             "Shift Roster - Medical Shift Scheduler",
		MsgSubtitle:          "AI-assisted rostering with Gemini",
		MsgInputHeading:      "Roster input",
		MsgOutputHeading:     "Generated roster",
		MsgStartDate:         "Start date",
		MsgEndDate:           "End date",
		MsgSaveDates:         "Save dates",
		MsgPersonnel:         "Personnel",
		MsgPersonnelHint:     "Add name and role...",
		MsgShifts:            "Shifts",
		MsgShiftsHint:        "Add shift...",
		MsgConstraints:       "Rules and constraints",
		MsgConstraintsHint:   "Special requests go here (leave, preferences)",
		MsgSaveConstraints:   "Save rules",
		MsgAdd:               "Add",
		MsgRemove:            "Remove %s",
		MsgGenerate:          "Generate roster",
		MsgGenerating:        "Working...",
		MsgDate:              "Date",
		MsgNoStaff:           "No staff",
		MsgEmptyTitle:        "Waiting for a roster",
		MsgEmptyHint:         "Fill in the form and press \"Generate roster\" to begin",
		MsgDownloadCSV:       "Download CSV",
		MsgReviewHeading:     "Advisory review",
		MsgFairness:          "Fairness score: %.0f%%",
		MsgValidationMissing: "Please fill in personnel, shifts and the date range",
		MsgGenerationFailed:  "Something went wrong while generating the roster. Please try again",
	},
	language.Thai: {
		MsgTitle:             "เวรยาม - Medical Shift Scheduler",
		MsgSubtitle:          "ผู้ช่วยจัดตารางเวรอัจฉริยะด้วย Gemini AI",
		MsgInputHeading:      "ข้อมูลสำหรับจัดเวร",
		MsgOutputHeading:     "ตารางเวรที่สร้างขึ้น",
		MsgStartDate:         "วันที่เริ่มต้น",
		MsgEndDate:           "วันที่สิ้นสุด",
		MsgSaveDates:         "บันทึกวันที่",
		MsgPersonnel:         "รายชื่อบุคลากร",
		MsgPersonnelHint:     "เพิ่มชื่อและตำแหน่ง...",
		MsgShifts:            "กะงาน",
		MsgShiftsHint:        "เพิ่มกะงาน...",
		MsgConstraints:       "กฎและเงื่อนไขเพิ่มเติม",
		MsgConstraintsHint:   "ใส่เงื่อนไขพิเศษที่นี่ (เช่น ขอลา, คำขอพิเศษ)",
		MsgSaveConstraints:   "บันทึกเงื่อนไข",
		MsgAdd:               "เพิ่ม",
		MsgRemove:            "ลบ %s",
		MsgGenerate:          "สร้างตารางเวร",
		MsgGenerating:        "กำลังประมวลผล...",
		MsgDate:              "วันที่",
		MsgNoStaff:           "ไม่มีผู้ปฏิบัติงาน",
		MsgEmptyTitle:        "รอการสร้างตารางเวร",
		MsgEmptyHint:         "กรอกข้อมูลด้านซ้ายแล้วกด \"สร้างตารางเวร\" เพื่อเริ่มต้น",
		MsgDownloadCSV:       "ดาวน์โหลด CSV",
		MsgReviewHeading:     "ผลการตรวจสอบเบื้องต้น",
		MsgFairness:          "คะแนนความเป็นธรรม: %.0f%%",
		MsgValidationMissing: "กรุณากรอกข้อมูลบุคลากร, กะงาน, และช่วงวันที่ให้ครบถ้วน",
		MsgGenerationFailed:  "เกิดข้อผิดพลาดในการสร้างตารางเวร กรุณาลองใหม่อีกครั้ง",
	},
}

func init() {
	for tag, entries := range catalog {
		for key, msg := range entries {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// Match picks the best supported language for the given preferences.
// Each preference may be a plain tag ("th") or an Accept-Language value.
// ok is false when no preference matches a supported language.
func Match(prefs ...string) (tag language.Tag, ok bool) {
	var tags []language.Tag
	for _, p := range prefs {
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return Supported[0], false
	}
	_, idx, conf := matcher.Match(tags...)
	return Supported[idx], conf != language.No
}

// Parse returns the supported tag for s, or ok=false if s names no supported language.
func Parse(s string) (language.Tag, bool) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Und, false
	}
	return Supported[idx], true
}

// Printer returns a message printer for tag
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// T translates key for tag, formatting args into the message
func T(tag language.Tag, key string, args ...any) string {
	return Printer(tag).Sprintf(key, args...)
}

// IsThai reports whether tag resolves to Thai
func IsThai(tag language.Tag) bool {
	base, _ := tag.Base()
	th, _ := language.Thai.Base()
	return base == th
}
