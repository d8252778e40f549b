package model

// ElementCount is the size of the fixed regulatory element taxonomy.
const ElementCount = 14

// ElementNames maps each regulatory element number to its display title.
var ElementNames = map[int]string{
	1:  "Management Leadership and Commitment",
	2:  "Hazard Identification and Assessment",
	3:  "Hazard Control",
	4:  "Safe Work Practices and Procedures",
	5:  "Training and Communication",
	6:  "Personal Protective Equipment",
	7:  "Preventative Maintenance",
	8:  "Emergency Preparedness",
	9:  "Workplace Inspections",
	10: "Incident Investigation",
	11: "Health and Safety Committee",
	12: "Contractor Management",
	13: "Records and Statistics",
	14: "Program Administration and Review",
}

// ValidElement reports whether n is inside the 1..14 taxonomy.
func ValidElement(n int) bool {
	return n >= 1 && n <= ElementCount
}
