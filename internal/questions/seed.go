package questions

import (
	"fmt"

	"github.com/quizmasters/rupee-rumble/internal/models"
)

// Seed returns the built-in 5x5 question bank used when no external
// question generator is wired in. Facilitators normally overwrite
// these through the question editor before a session.
func Seed() []models.Question {
	return []models.Question{
		q(1, 1, "Which city is home to the Reserve Bank of India's headquarters?",
			"Mumbai", "New Delhi", "Kolkata", "Chennai", models.OptionA),
		q(1, 2, "What animal appears on the Rs 500 note's Swachh Bharat logo side?",
			"Tiger", "Elephant", "None, it shows the Red Fort", "Peacock", models.OptionC),
		q(1, 3, "Which planet is known as the Red Planet?",
			"Venus", "Mars", "Jupiter", "Mercury", models.OptionB),
		q(1, 4, "How many players are on the field per side in a cricket match?",
			"10", "12", "11", "9", models.OptionC),
		q(1, 5, "Which ocean lies to the south of India?",
			"Atlantic", "Arctic", "Pacific", "Indian", models.OptionD),

		q(2, 1, "Who wrote the Indian national anthem?",
			"Rabindranath Tagore", "Bankim Chandra Chatterjee", "Sarojini Naidu", "Subhas Chandra Bose", models.OptionA),
		q(2, 2, "Which is the largest internal organ in the human body?",
			"Heart", "Liver", "Lungs", "Kidney", models.OptionB),
		q(2, 3, "In which year did India gain independence?",
			"1950", "1945", "1947", "1942", models.OptionC),
		q(2, 4, "What is the chemical symbol for gold?",
			"Go", "Gd", "Ag", "Au", models.OptionD),
		q(2, 5, "Which river is the longest in the world by most measures?",
			"Nile", "Amazon", "Ganges", "Yangtze", models.OptionA),

		q(3, 1, "Which company makes the PlayStation console?",
			"Nintendo", "Sony", "Microsoft", "Sega", models.OptionB),
		q(3, 2, "How many sides does a hexagon have?",
			"5", "7", "6", "8", models.OptionC),
		q(3, 3, "Which Indian state is famous for the backwaters of Alleppey?",
			"Goa", "Tamil Nadu", "Karnataka", "Kerala", models.OptionD),
		q(3, 4, "Who painted the Mona Lisa?",
			"Leonardo da Vinci", "Pablo Picasso", "Vincent van Gogh", "Michelangelo", models.OptionA),
		q(3, 5, "What gas do plants primarily absorb for photosynthesis?",
			"Oxygen", "Carbon dioxide", "Nitrogen", "Hydrogen", models.OptionB),

		q(4, 1, "Which is the smallest prime number?",
			"0", "1", "2", "3", models.OptionC),
		q(4, 2, "The Taj Mahal stands on the bank of which river?",
			"Ganges", "Godavari", "Brahmaputra", "Yamuna", models.OptionD),
		q(4, 3, "Which country hosts the Wimbledon tennis championships?",
			"United Kingdom", "France", "Australia", "United States", models.OptionA),
		q(4, 4, "What is the currency of Japan?",
			"Won", "Yen", "Yuan", "Ringgit", models.OptionB),
		q(4, 5, "Which element has the atomic number 1?",
			"Helium", "Oxygen", "Hydrogen", "Carbon", models.OptionC),

		q(5, 1, "Which mountain is the tallest above sea level?",
			"K2", "Kangchenjunga", "Annapurna", "Mount Everest", models.OptionD),
		q(5, 2, "Who was the first Prime Minister of India?",
			"Jawaharlal Nehru", "Mahatma Gandhi", "Sardar Patel", "Lal Bahadur Shastri", models.OptionA),
		q(5, 3, "How many colors are there in a rainbow?",
			"Six", "Seven", "Eight", "Five", models.OptionB),
		q(5, 4, "Which programming language is named after a British comedy group?",
			"Ruby", "Java", "Python", "Perl", models.OptionC),
		q(5, 5, "Which festival is known as the festival of lights?",
			"Holi", "Onam", "Pongal", "Diwali", models.OptionD),
	}
}

func q(round, number int, text, a, b, c, d string, correct models.Option) models.Question {
	return models.Question{
		ID:             fmt.Sprintf("r%dq%d", round, number),
		RoundNumber:    round,
		QuestionNumber: number,
		Text:           text,
		Options: map[models.Option]string{
			models.OptionA: a,
			models.OptionB: b,
			models.OptionC: c,
			models.OptionD: d,
		},
		CorrectAnswer: correct,
	}
}
