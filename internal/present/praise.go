package present

import (
	"fmt"

	"github.com/abhisek/mathquiz/internal/sampler"
)

// GoodNames address the learner after a correct answer.
var GoodNames = []string{
	"genius", "whizkid", "smarty pants", "Doctor", "master", "winner", "your awesomeness",
}

// SillyNames address the learner after a wrong answer. They tease, never hurt.
var SillyNames = []string{
	"doofus", "goofball", "silly goose", "noodlehead", "sleepyhead", "banana brain", "knucklehead",
}

// Name picks a random name for the learner.
func Name(s *sampler.Sampler, correct bool) string {
	if correct {
		return sampler.Pick(s, GoodNames)
	}
	return sampler.Pick(s, SillyNames)
}

// Feedback returns the line shown after an answer.
func Feedback(correct bool, name, answer string) string {
	if correct {
		return fmt.Sprintf("Correct, %s!", name)
	}
	return fmt.Sprintf("Wrong, %s! The correct answer is: %s", name, answer)
}

// Score returns the closing score line.
func Score(correct, total int) string {
	return fmt.Sprintf("You got %d out of %d questions right!", correct, total)
}
