package domain

// Summary is the structured digest of one source, built from retrieved context.
type Summary struct {
	About      About      `json:"about"`
	KeyIdeas   []string   `json:"key_ideas"`
	Practices  []Practice `json:"practices"`
	Cases      []string   `json:"cases"`
	Quotes     []Quote    `json:"quotes"`
	Reflection []string   `json:"reflection"`
}

// About describes the source itself.
type About struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Thesis   string `json:"thesis"`
	Audience string `json:"audience"`
}

// Practice is a named, step-by-step technique from the source.
type Practice struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

// Quote is a quotable line with an optional note.
type Quote struct {
	Text string `json:"text"`
	Note string `json:"note"`
}

// EmptySummary returns a summary with every list initialised and empty.
func EmptySummary() *Summary {
	s := &Summary{}
	s.Normalize()
	return s
}

// Normalize replaces nil lists with empty ones so renderers never see nil.
func (s *Summary) Normalize() {
	if s.KeyIdeas == nil {
		s.KeyIdeas = []string{}
	}
	if s.Practices == nil {
		s.Practices = []Practice{}
	}
	for i := range s.Practices {
		if s.Practices[i].Steps == nil {
			s.Practices[i].Steps = []string{}
		}
	}
	if s.Cases == nil {
		s.Cases = []string{}
	}
	if s.Quotes == nil {
		s.Quotes = []Quote{}
	}
	if s.Reflection == nil {
		s.Reflection = []string{}
	}
}

// IsEmpty reports whether the summary carries no content at all.
func (s *Summary) IsEmpty() bool {
	return s.About == (About{}) &&
		len(s.KeyIdeas) == 0 &&
		len(s.Practices) == 0 &&
		len(s.Cases) == 0 &&
		len(s.Quotes) == 0 &&
		len(s.Reflection) == 0
}
