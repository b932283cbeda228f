package models

const (
	AnswerLetters = "ABCD"
	OptionCount   = 4
)

// MCQPromptTemplate is filled with count, topic, difficulty instruction
// and the retrieved study material, in that order. The model is told to
// return a bare JSON array; the generator still treats the response as
// untrusted free text.
var MCQPromptTemplate = `You are an expert instructor.

TASK:
Generate EXACTLY %d UNIQUE multiple-choice questions about the topic:
"%s"

DIFFICULTY:
%s

RULES:
- Every question MUST be directly related to the topic
- Use ONLY the provided study material
- Each question must test a DIFFERENT idea
- Do NOT repeat concepts
- Do NOT invent facts

Return VALID JSON only. No prose, no markdown fences.

FORMAT:
[
  {
    "question": "...",
    "options": ["A) ...", "B) ...", "C) ...", "D) ..."],
    "answer": "A",
    "explanation": "Explain using the material"
  }
]

STUDY MATERIAL:
%s
`
