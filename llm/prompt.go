package llm

import (
	"fmt"
	"slices"
	"strings"

	"matchai-service/model"
)

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}

func derefOrUnspecified(s *string) string {
	if s == nil {
		return "Not specified"
	}
	return orUnspecified(*s)
}

func profilePrompt(in ProfileInput) string {
	age := "Not specified"
	if in.Age > 0 {
		age = fmt.Sprint(in.Age)
	}
	return fmt.Sprintf(`Generate an engaging dating profile based on the following information:

Interests: %s
Age: %s
Gender: %s
Location: %s
Occupation: %s
Education: %s
Looking for: %s

Generate a compelling bio (maximum 200 characters) and a refined list of interests.
Respond in JSON format with fields: "bio" (string) and "interests" (array of strings).`,
		orUnspecified(strings.Join(in.Interests, ", ")),
		age,
		orUnspecified(in.Gender),
		orUnspecified(in.Location),
		orUnspecified(in.Occupation),
		orUnspecified(in.Education),
		orUnspecified(in.LookingFor),
	)
}

func sharedInterests(a, b []string) []string {
	var shared []string
	for _, interest := range a {
		if slices.Contains(b, interest) && !slices.Contains(shared, interest) {
			shared = append(shared, interest)
		}
	}
	return shared
}

func startersPrompt(mine, theirs []string, theirName string) string {
	sharedLine := "We don't seem to have shared interests yet."
	if shared := sharedInterests(mine, theirs); len(shared) > 0 {
		sharedLine = "Shared interests: " + strings.Join(shared, ", ")
	}
	return fmt.Sprintf(`Generate 3 engaging conversation starters for a dating app chat with %[1]s.

My interests: %[2]s
%[1]s's interests: %[3]s
%[4]s

Make the conversation starters personal, engaging, and relevant to the shared interests if any.
Each starter should be 1-2 sentences maximum.
Respond in JSON format with field: "starters" (array of strings).`,
		theirName,
		strings.Join(mine, ", "),
		strings.Join(theirs, ", "),
		sharedLine,
	)
}

func describe(u *model.User, withGoal bool) string {
	s := fmt.Sprintf("%s, %d, %s\nInterests: %s\nBio: %s",
		u.ProfileName, u.Age, u.Gender,
		strings.Join(u.Interests, ", "),
		derefOrUnspecified(u.Bio),
	)
	if withGoal {
		s += "\nLooking for: " + orUnspecified(u.LookingFor)
	}
	return s
}

func videoDateTipsPrompt(u1, u2 *model.User) string {
	return fmt.Sprintf(`Generate 3 personalized tips for a successful video date between these two users:

User 1: %s

User 2: %s

Provide specific, actionable tips related to their shared interests or complementary qualities.
Each tip should be specific and personalized.
Respond in JSON format with field: "tips" (array of strings).`,
		describe(u1, false), describe(u2, false))
}

const optimalTimesPrompt = `Suggest 3 optimal times for a video date on a dating app.
Consider common free times when people might be available.
For each suggestion, include the day of the week, time, and a confidence score (0-1).
Respond in JSON format with field: "times" (array of objects with "day", "time", and "confidence").`

func compatibilityPrompt(u1, u2 *model.User) string {
	return fmt.Sprintf(`Calculate the compatibility between these two dating app users:

User 1: %s

User 2: %s

Provide a compatibility score (0-100) and 2-3 specific reasons for the score.
Consider shared interests, complementary qualities, and relationship goals.
Respond in JSON format with fields: "score" (number) and "reasons" (array of strings).`,
		describe(u1, true), describe(u2, true))
}
