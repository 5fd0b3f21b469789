package openai

import (
	"fmt"

	"github.com/mini-lawyer/lawdex/internal/domain"
)

// Placeholders used when a document has no pre-computed summary yet. The prompt
// must always carry an explicit description field, never an empty string.
const (
	noLawDescription      = "אין תיאור זמין לחוק זה."
	noJudgmentDescription = "אין תיאור זמין לפסק דין זה."
)

const lawPromptFormat = `בהתבסס על הסצנריו הבא:
%s

וכן על פרטי החוק הבא:
שם: %s
תיאור: %s

אנא הסבר בצורה תמציתית ומקצועית מדוע חוק זה יכול לעזור למקרה זה, והערך אותו בסולם של 0 עד 10 כאשר 0 החוק לא יכול לעזור בכלל ולא קשור לנושא ו-10 החוק מתאים כמו כפפה והוא בדיוק מה שהמשתמש תיאר.
הקפד על מגוון בציונים: השתמש בכל הסולם ואל תחזור כברירת מחדל לציון בינוני-גבוה.
החזר את התשובה בפורמט JSON בלבד, לדוגמה:
{
  "advice": "הסבר תמציתי ומקצועי בעברית",
  "score": 8
}
אין להוסיף טקסט נוסף.`

const judgmentPromptFormat = `בהתבסס על הסצנריו הבא:
%s

וכן על פרטי פסק הדין הבא:
שם: %s
תיאור: %s

אנא הסבר בצורה תמציתית ומקצועית מדוע פסק דין זה יכול לעזור למקרה זה, והערך אותו בסולם של 0 עד 10 כאשר 0 - אינו עוזר כלל ו-10 - מתאים במדויק.
הקפד על מגוון בציונים: השתמש בכל הסולם ואל תחזור כברירת מחדל לציון בינוני-גבוה.
החזר את התשובה בפורמט JSON בלבד, לדוגמה:
{
  "advice": "הסבר מקצועי בעברית",
  "score": 8
}
אין להוסיף טקסט נוסף.`

// buildPrompt renders the kind-specific explanation prompt for one
// (scenario, document) pair.
func buildPrompt(scenario string, doc domain.LegalDocument) string {
	desc := doc.Description
	format := lawPromptFormat
	if doc.Kind == domain.KindJudgment {
		format = judgmentPromptFormat
		if desc == "" {
			desc = noJudgmentDescription
		}
	} else if desc == "" {
		desc = noLawDescription
	}
	return fmt.Sprintf(format, scenario, doc.Name, desc)
}
