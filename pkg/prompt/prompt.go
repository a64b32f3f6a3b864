package prompt

import (
	"fmt"
	"strings"

	"github.com/arnavshah/shift-roster-ai/pkg/i18n"
	"github.com/arnavshah/shift-roster-ai/pkg/models"
	"golang.org/x/text/language"
)

// Separator joins personnel and shift names inside the prompt
const Separator = ", "

// englishTemplate takes, in order: start date, end date, personnel, shifts, constraints.
const englishTemplate = `You are an expert in building duty rosters for hospitals.

Build a duty roster for the medical staff from the following information:

**Date range:**
From %s to %s

**All personnel:**
%s

**Shift types for each day:**
%s

**Rules and constraints:**
%s

**Rules that must be followed strictly:**
1. Distribute shifts as fairly and evenly as possible across all personnel.
2. Never assign anyone to a morning shift immediately after they worked the night shift of the previous day.
3. Make sure everyone has adequate rest between shifts.
4. Staff every shift according to the rules and constraints above (for example the headcount per shift).

Return only a JSON value that matches the given schema exactly. Do not add any explanation outside the JSON.
`

const thaiTemplate = `คุณคือผู้เชี่ยวชาญด้านการจัดตารางเวรสำหรับโรงพยาบาล

โปรดสร้างตารางเวรสำหรับบุคลากรทางการแพทย์ตามข้อมูลต่อไปนี้:

**ช่วงวันที่:**
จาก %s ถึง %s

**รายชื่อบุคลากรทั้งหมด:**
%s

**ประเภทของกะงานในแต่ละวัน:**
%s

**กฎและเงื่อนไข:**
%s

**กฎที่ต้องปฏิบัติตามอย่างเคร่งครัด:**
1. กระจายกะงานให้มีความยุติธรรมและเท่าเทียมกันมากที่สุดสำหรับบุคลากรทุกคน
2. ห้ามจัดให้บุคลากรคนใดทำงานในกะเช้าทันทีหลังจากที่เพิ่งออกกะดึกในวันก่อนหน้า
3. ตรวจสอบให้แน่ใจว่าบุคลากรทุกคนมีเวลาพักผ่อนที่เพียงพอระหว่างกะงาน
4. จัดบุคลากรให้ตรงตามเงื่อนไขที่ระบุไว้ในกฎและเงื่อนไข (เช่น จำนวนคนในแต่ละกะ)

โปรดส่งคืนผลลัพธ์เป็น JSON ที่มีโครงสร้างตรงตาม schema ที่กำหนดเท่านั้น ห้ามมีข้อความอธิบายใดๆ นอกเหนือจาก JSON
`

// Build renders the instruction sent to the generation service. User text
// is embedded literally; the same input always yields the same prompt.
func Build(in models.FormInput, lang language.Tag) string {
	tmpl := englishTemplate
	if i18n.IsThai(lang) {
		tmpl = thaiTemplate
	}
	return fmt.Sprintf(tmpl,
		in.Dates.Start,
		in.Dates.End,
		strings.Join(in.PersonnelNames(), Separator),
		strings.Join(in.ShiftNames(), Separator),
		in.Constraints,
	)
}
