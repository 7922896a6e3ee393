package questionnaire

var interpretations = map[Grade]string{
	GradeAPlus: "Excellent! Your home is in strong harmony with Vastu principles. " +
		"Keep maintaining your spaces as they are.",

	GradeA: "Very good. Your home follows most Vastu guidelines and the overall " +
		"energy is positive. A few small adjustments could lift it further; a short " +
		"consultation can point them out precisely.",

	GradeB: "Good, with room for improvement. Several areas of your home are " +
		"aligned, but some placements may be holding back the flow of positive " +
		"energy. Simple remedies such as re-arranging furniture, colours or lighting " +
		"can make a noticeable difference. We recommend booking a consultation to " +
		"identify which corrections will have the most impact.",

	GradeC: "Needs attention. A number of important zones in your home are not in " +
		"line with Vastu principles, which can show up as stress, health concerns or " +
		"financial obstacles. Most of these can be corrected without demolition using " +
		"proven remedies. Please book a consultation so that an expert can review the " +
		"layout and prepare a prioritised remedy plan for your home.",

	GradeD: "Significant imbalance detected. Many key areas of your home go against " +
		"Vastu guidelines, and the energy flow is likely to be disturbed. This can " +
		"affect relationships, wellbeing, career and finances over time. The good news " +
		"is that every imbalance has a remedy. We strongly recommend booking a detailed " +
		"consultation at the earliest: an expert will study your floor plan, explain " +
		"each issue and give you practical, non-destructive corrections to restore " +
		"balance and harmony to your home.",
}

// Interpretation returns the fixed guidance text for a grade.
func Interpretation(g Grade) string {
	if s, ok := interpretations[g]; ok {
		return s
	}
	return interpretations[GradeD]
}
