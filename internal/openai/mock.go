package openai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// mockRule maps keywords in the user's message to a canned structured
// reply. Rules are evaluated in order and the first match wins, so the
// more specific emotional topics sit above the generic catch-alls.
type mockRule struct {
	keywords []string
	reply    mockReply
}

type mockReply struct {
	Reply       string   `json:"reply"`
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

var greetingRe = regexp.MustCompile(`^(hi|hello|hey|greetings|good morning|good afternoon|good evening)`)

var greetingReply = mockReply{
	Reply:   "Hello! I'm glad you're here. I'm your AI wellness companion, and I'm here to listen and support you. How are you feeling today? Feel free to share what's on your mind, whether it's about your mood, stress, or anything else you'd like to discuss.",
	Summary: "User initiated conversation. Ready to provide support.",
	Suggestions: []string{
		"Share how you're feeling right now",
		"Tell me about your day or week",
		"Ask about mood patterns or coping strategies",
		"Let me know if there's something specific on your mind",
	},
}

var mockRules = []mockRule{
	{
		keywords: []string{"anxious", "anxiety", "worried", "panic", "nervous", "tense"},
		reply: mockReply{
			Reply:   "I hear that you're feeling anxious, and I want you to know that your feelings are valid. Anxiety is our body's natural response to stress, but when it becomes overwhelming, it's important to have tools to manage it. Let's work through this together.",
			Summary: "Experiencing anxiety symptoms. Needs grounding techniques and support.",
			Suggestions: []string{
				"Try the 5-4-3-2-1 grounding technique: name 5 things you see, 4 you can touch, 3 you hear, 2 you smell, 1 you taste",
				"Practice box breathing: inhale for 4, hold for 4, exhale for 4, hold for 4. Repeat 5 times",
				"Write down what's making you anxious - sometimes seeing it on paper helps",
				"If anxiety persists or worsens, please reach out to a mental health professional",
			},
		},
	},
	{
		keywords: []string{"stressed", "overwhelmed", "pressure", "too much"},
		reply: mockReply{
			Reply:   "Feeling stressed and overwhelmed is exhausting, and I'm sorry you're going through this. Remember, it's okay to not have everything figured out right now. Let's break things down into manageable pieces.",
			Summary: "User is experiencing stress and feeling overwhelmed by current circumstances.",
			Suggestions: []string{
				"Make a list of everything on your mind, then prioritize just 3 most urgent items",
				"Take a 10-minute break - step away from your tasks and do something you enjoy",
				"Practice saying 'no' to new commitments until you have more capacity",
				"Consider reaching out to friends, family, or a counselor for support",
			},
		},
	},
	{
		keywords: []string{"sad", "depressed", "down", "hopeless", "empty", "worthless"},
		reply: mockReply{
			Reply:   "I'm truly sorry you're feeling this way. These feelings can be incredibly heavy, and it takes courage to acknowledge them. Please know that you don't have to face this alone, and what you're feeling is real and deserves care and attention.",
			Summary: "User is experiencing symptoms of sadness or depression. Gentle support and professional resources recommended.",
			Suggestions: []string{
				"Reach out to someone you trust - a friend, family member, or therapist",
				"Try to maintain a routine: eat meals, stay hydrated, and get some fresh air if possible",
				"Engage in one small, gentle activity you used to enjoy, even if you don't feel like it",
				"If you're having thoughts of self-harm, please call a crisis helpline immediately (National Suicide Prevention Lifeline: 988)",
			},
		},
	},
	{
		keywords: []string{"angry", "frustrated", "irritated", "mad", "furious"},
		reply: mockReply{
			Reply:   "Anger is a powerful emotion, and it's telling you that something matters to you. It's okay to feel angry, but let's find healthy ways to process and express these feelings so they don't consume you.",
			Summary: "User is experiencing anger or frustration. Needs healthy outlets for expression.",
			Suggestions: []string{
				"Take a timeout: step away from the situation for 10-15 minutes to cool down",
				"Physical release: go for a run, do some push-ups, or punch a pillow",
				"Journal about what triggered the anger - writing can help you process emotions",
				"Once calm, consider addressing the underlying issue constructively",
			},
		},
	},
	{
		keywords: []string{"lonely", "alone", "isolated", "no one"},
		reply: mockReply{
			Reply:   "Feeling lonely can be one of the most painful experiences, even when surrounded by people. I want you to know that you're not alone in feeling alone - many people experience this, and there are ways to reconnect with others and yourself.",
			Summary: "User is experiencing loneliness. Needs connection and community support.",
			Suggestions: []string{
				"Reach out to one person - send a text, make a call, or schedule a coffee date",
				"Join an online or local community group based on your interests",
				"Practice self-compassion: treat yourself as you would a good friend",
				"Consider volunteering - helping others can create meaningful connections",
			},
		},
	},
	{
		keywords: []string{"tired", "exhausted", "fatigue", "sleep", "energy"},
		reply: mockReply{
			Reply:   "Feeling tired all the time can really impact your quality of life. It sounds like your body might be telling you it needs some extra care right now. Let's look at what might be draining your energy and how we can help you restore it.",
			Summary: "User is experiencing low energy and fatigue. Sleep hygiene and self-care needed.",
			Suggestions: []string{
				"Prioritize 7-9 hours of sleep: set a consistent bedtime and wake time",
				"Create a wind-down routine: no screens 1 hour before bed, dim lights, calming activity",
				"Check in with your body: are you eating well, staying hydrated, moving enough?",
				"If fatigue persists for weeks, consider seeing a doctor to rule out medical causes",
			},
		},
	},
	{
		keywords: []string{"happy", "great", "good", "wonderful", "excited", "proud"},
		reply: mockReply{
			Reply:   "That's absolutely wonderful to hear! It's so important to acknowledge and celebrate these positive moments. Your happiness matters, and I'm glad you're experiencing this. Let's make sure to savor this feeling and understand what contributed to it.",
			Summary: "User is experiencing positive emotions. Encouraging gratitude and awareness.",
			Suggestions: []string{
				"Take a moment to really notice what made you feel this way - write it down",
				"Practice gratitude: list 3 specific things you're grateful for right now",
				"Share your joy with someone you care about",
				"Remember this feeling - you can return to it when times are tough",
			},
		},
	},
	{
		keywords: []string{"confused", "don't know", "uncertain", "lost", "what to do"},
		reply: mockReply{
			Reply:   "It's completely normal to feel confused or uncertain sometimes. Life doesn't come with a manual, and it's okay to not have all the answers. Let's work together to bring some clarity to your situation, one step at a time.",
			Summary: "User is experiencing confusion or uncertainty. Needs guidance and clarity.",
			Suggestions: []string{
				"Start by identifying what specifically feels confusing - write it out",
				"Break down the situation into smaller, more manageable questions",
				"Talk it through with someone you trust - sometimes saying it out loud helps",
				"Remember: you don't need to figure everything out today",
			},
		},
	},
	{
		keywords: []string{"help", "advice", "what should i", "suggest", "recommend"},
		reply: mockReply{
			Reply:   "I'm here to help! Asking for support is a sign of strength, not weakness. Let me offer some guidance based on what you've shared. Remember, you know yourself best, so take what resonates and leave what doesn't.",
			Summary: "User is seeking guidance and support. Providing actionable advice.",
			Suggestions: []string{
				"Reflect on your current situation and identify what feels most pressing",
				"Consider your values and what matters most to you in this decision",
				"Reach out to trusted friends, family, or a professional for personalized guidance",
				"Trust your intuition - often you know the answer deep down",
			},
		},
	},
	{
		keywords: []string{"mood", "pattern", "trend", "feeling"},
		reply: mockReply{
			Reply:   "Tracking your moods is such a valuable practice for understanding yourself better. By observing patterns over time, you can identify triggers, recognize progress, and make informed decisions about your mental health. Let's explore what your mood data might be telling you.",
			Summary: "User is interested in understanding mood patterns and emotional trends.",
			Suggestions: []string{
				"Review your mood entries from the past week to identify any patterns",
				"Notice if certain activities, people, or times of day affect your mood",
				"Continue logging daily - the more data, the clearer the patterns",
				"Celebrate improvements and be gentle with yourself during difficult periods",
			},
		},
	},
	{
		keywords: []string{"cope", "strategy", "technique", "manage"},
		reply: mockReply{
			Reply:   "Building a toolkit of healthy coping strategies is essential for mental wellness. Different techniques work for different people and situations, so it's great that you're exploring options. Here are some evidence-based strategies you can try.",
			Summary: "User is seeking coping strategies and management techniques.",
			Suggestions: []string{
				"Mindfulness meditation: even 5 minutes daily can reduce stress significantly",
				"Progressive muscle relaxation: tense and release each muscle group",
				"Regular physical activity: walking, yoga, dancing - whatever you enjoy",
				"Creative expression: art, music, writing - let emotions flow through creativity",
			},
		},
	},
	{
		keywords: []string{"grateful", "thankful", "appreciate", "blessing"},
		reply: mockReply{
			Reply:   "Practicing gratitude is one of the most powerful tools for improving mental well-being. Research shows that regularly acknowledging what we're grateful for can increase happiness, reduce depression, and improve relationships. It's beautiful that you're cultivating this practice.",
			Summary: "User is practicing gratitude and focusing on positive aspects.",
			Suggestions: []string{
				"Start a gratitude journal: write 3 things you're grateful for each day",
				"Express appreciation to someone who's made a difference in your life",
				"Notice small, everyday blessings: warm coffee, a kind smile, sunshine",
				"During difficult times, gratitude can be an anchor of hope",
			},
		},
	},
}

var defaultReply = mockReply{
	Reply:   "Thank you for reaching out and sharing with me. I'm here to provide support and guidance on your mental wellness journey. Whether you're having a tough day or celebrating wins, I'm here to listen without judgment. What would be most helpful for you to discuss right now?",
	Summary: "User has initiated conversation. Ready to provide tailored support.",
	Suggestions: []string{
		"Share what's on your mind - I'm here to listen",
		"Tell me about your current emotional state",
		"Ask about specific coping strategies or mental wellness topics",
		"Review your mood patterns or journal entries together",
	},
}

func mockCompletion(req *ChatRequest) *ChatResponse {
	userMessage := ""
	for _, m := range req.Messages {
		if m.Role == "user" {
			userMessage = m.Content
			break
		}
	}

	content := mockContent(userMessage)
	now := time.Now()

	return &ChatResponse{
		ID:      fmt.Sprintf("mock-%d", now.UnixMilli()),
		Object:  "chat.completion",
		Created: now.Unix(),
		Model:   "mock-model",
		Choices: []Choice{{
			Index:        0,
			Message:      Message{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
		Usage: Usage{PromptTokens: 100, CompletionTokens: 150, TotalTokens: 250},
	}
}

func mockContent(userMessage string) string {
	lower := strings.ToLower(userMessage)

	reply := defaultReply
	if greetingRe.MatchString(lower) {
		reply = greetingReply
	} else {
		for _, rule := range mockRules {
			if rule.matches(lower) {
				reply = rule.reply
				break
			}
		}
	}

	out, err := json.Marshal(reply)
	if err != nil {
		return `{"reply":"I'm here to listen.","summary":"","suggestions":[]}`
	}
	return string(out)
}

func (r mockRule) matches(lower string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
