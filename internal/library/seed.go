// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

// DefaultSubjects returns the built-in HSC subject list with empty resource
// sequences. Each call returns a fresh copy.
func DefaultSubjects() []Subject {
	subjects := []Subject{
		{ID: "bangla-1st", Name: "Bangla 1st Paper", Code: "BAN101", Icon: "📝", Color: "from-red-400 to-red-600", Description: "বাংলা প্রথম পত্র"},
		{ID: "bangla-2nd", Name: "Bangla 2nd Paper", Code: "BAN102", Icon: "📚", Color: "from-red-500 to-red-700", Description: "বাংলা দ্বিতীয় পত্র"},
		{ID: "english-1st", Name: "English 1st Paper", Code: "ENG101", Icon: "🇬🇧", Color: "from-blue-400 to-blue-600", Description: "English First Paper"},
		{ID: "english-2nd", Name: "English 2nd Paper", Code: "ENG102", Icon: "📖", Color: "from-blue-500 to-blue-700", Description: "English Second Paper"},
		{ID: "ict", Name: "ICT", Code: "ICT101", Icon: "💻", Color: "from-purple-400 to-purple-600", Description: "Information & Communication Technology"},
		{ID: "chemistry", Name: "Chemistry", Code: "CHE101", Icon: "⚗️", Color: "from-green-400 to-green-600", Description: "রসায়ন"},
		{ID: "physics", Name: "Physics", Code: "PHY101", Icon: "⚛️", Color: "from-indigo-400 to-indigo-600", Description: "পদার্থবিজ্ঞান"},
		{ID: "higher-math", Name: "Higher Mathematics", Code: "MAT101", Icon: "📐", Color: "from-orange-400 to-orange-600", Description: "উচ্চতর গণিত"},
		{ID: "biology", Name: "Biology", Code: "BIO101", Icon: "🧬", Color: "from-emerald-400 to-emerald-600", Description: "জীববিজ্ঞান"},
	}
	for i := range subjects {
		subjects[i].Resources.normalize()
	}
	return subjects
}
