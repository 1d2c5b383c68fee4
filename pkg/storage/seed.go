package storage

import "github.com/felixgeelhaar/storyreview/pkg/domain/story"

// SeedStories returns the sample stories a mock session starts with.
func SeedStories() []story.Story {
	return []story.Story{
		{
			ID:        "1",
			Title:     "User Authentication for Mobile App",
			UserStory: "As a mobile app user, I want to be able to log in with my Microsoft account so that I can access my personalized dashboard.",
			AcceptanceCriteria: []string{
				`User can click "Sign in with Microsoft" button on login screen`,
				"User is redirected to Microsoft login page",
				"After successful authentication, user is redirected back to the app",
				"User profile information is displayed in the app header",
			},
			StoryPoints: 5,
			Priority:    story.PriorityHigh,
			Tags:        []string{"Mobile", "Authentication", "UI"},
			Status:      story.StatusNew,
			Version:     1,
		},
		{
			ID:        "2",
			Title:     "Meeting Transcript Search",
			UserStory: "As a team member, I want to search through meeting transcripts so that I can quickly find specific discussions without watching entire recordings.",
			AcceptanceCriteria: []string{
				"User can enter keywords in a search box",
				"Search results highlight matching text in transcripts",
				"Results are sorted by relevance",
				"Users can filter search results by date range",
			},
			StoryPoints: 8,
			Priority:    story.PriorityMedium,
			Tags:        []string{"Backend", "Search", "UI"},
			Status:      story.StatusApproved,
			Version:     1,
		},
		{
			ID:        "3",
			Title:     "Integration with Azure DevOps",
			UserStory: "As a product owner, I want approved user stories to be automatically created in Azure DevOps so that the development team can start working on them.",
			AcceptanceCriteria: []string{
				"Approved stories are pushed to Azure DevOps within 5 minutes",
				"Story details including acceptance criteria are preserved",
				"A link to the original transcript is included in the DevOps work item",
				`Story status is updated to "Published" after successful creation in DevOps`,
			},
			StoryPoints:  5,
			Priority:     story.PriorityHigh,
			Tags:         []string{"Integration", "API", "DevOps"},
			Status:       story.StatusPublished,
			PublishedID:  "WI-234",
			PublishedURL: "https://dev.azure.com/organization/project/_workitems/edit/234",
			Version:      1,
		},
		{
			ID:        "4",
			Title:     "Dashboard Analytics",
			UserStory: "As a manager, I want to see analytics on story generation and processing so that I can measure the efficiency of our planning process.",
			AcceptanceCriteria: []string{
				"Dashboard shows number of stories generated per meeting",
				"Dashboard displays average time from transcript to approved story",
				"Visual chart shows story point distribution",
				"Data can be filtered by time period and team",
			},
			StoryPoints: 3,
			Priority:    story.PriorityLow,
			Tags:        []string{"Dashboard", "Analytics", "UI"},
			Status:      story.StatusRejected,
			Version:     1,
		},
		{
			ID:        "5",
			Title:     "AI Accuracy Improvement",
			UserStory: "As a product owner, I want to provide feedback on AI-generated stories so that the system can improve its accuracy over time.",
			AcceptanceCriteria: []string{
				"Each generated story has thumbs up/down feedback buttons",
				"User can provide text comments on rejected stories",
				"System tracks feedback metrics over time",
				"AI model is retrained monthly with feedback data",
			},
			StoryPoints: 8,
			Priority:    story.PriorityMedium,
			Tags:        []string{"AI", "ML", "Feedback"},
			Status:      story.StatusNew,
			Version:     1,
		},
	}
}
