package form

import (
	"strconv"
	"time"

	"github.com/arnavshah/shift-roster-ai/pkg/i18n"
	"github.com/arnavshah/shift-roster-ai/pkg/models"
	"golang.org/x/text/language"
)

const isoDate = "2006-01-02"

// Defaults returns the sample roster a new session starts with: a small
// ward team, three shifts and the range today..today+6.
func Defaults(lang language.Tag, today time.Time) models.FormInput {
	in := models.FormInput{
		Dates: models.DateRange{
			Start: today.Format(isoDate),
			End:   today.AddDate(0, 0, 6).Format(isoDate),
		},
	}

	if i18n.IsThai(lang) {
		in.Personnel = people("นพ. สมชาย (แพทย์)", "พญ. สมศรี (แพทย์)", "คุณมาลี (พยาบาล)",
			"คุณมานะ (พยาบาล)", "คุณปิติ (พยาบาล)", "คุณวิชัย (เทคนิคการแพทย์)")
		in.Shifts = []models.ShiftType{
			{ID: "s1", Name: "เวรเช้า (8:00-16:00)"},
			{ID: "s2", Name: "เวรบ่าย (16:00-00:00)"},
			{ID: "s3", Name: "เวรดึก (00:00-8:00)"},
		}
		in.Constraints = "- แพทย์ 1 คน และพยาบาล 2 คนในเวรเช้าและบ่าย\n" +
			"- แพทย์ 1 คน พยาบาล 1 คน และเทคนิคการแพทย์ 1 คนในเวรดึก\n" +
			"- นพ. สมชาย ไม่สามารถทำงานวันเสาร์-อาทิตย์ได้\n" +
			"- คุณมาลี ขอลงเวรดึกเป็นหลัก\n" +
			"- ทุกคนควรได้วันหยุดอย่างน้อย 2 วันต่อสัปดาห์\n" +
			"- ห้ามจัดเวรเช้าต่อจากเวรดึกของวันก่อนหน้า"
		return in
	}

	in.Personnel = people("Dr. Somchai (physician)", "Dr. Somsri (physician)", "Malee (nurse)",
		"Mana (nurse)", "Piti (nurse)", "Wichai (medical technologist)")
	in.Shifts = []models.ShiftType{
		{ID: "s1", Name: "Morning (8:00-16:00)"},
		{ID: "s2", Name: "Afternoon (16:00-00:00)"},
		{ID: "s3", Name: "Night (00:00-8:00)"},
	}
	in.Constraints = "- 1 physician and 2 nurses on the morning and afternoon shifts\n" +
		"- 1 physician, 1 nurse and 1 medical technologist on the night shift\n" +
		"- Dr. Somchai cannot work on weekends\n" +
		"- Malee prefers night shifts\n" +
		"- Everyone gets at least 2 days off per week\n" +
		"- No morning shift right after a night shift on the previous day"
	return in
}

func people(names ...string) []models.Person {
	out := make([]models.Person, len(names))
	for i, n := range names {
		out[i] = models.Person{ID: strconv.Itoa(i + 1), Name: n}
	}
	return out
}
