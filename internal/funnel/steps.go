package funnel

import "time"

// autoAdvanceDelay gives the card-select animation time to play before the
// step advances on its own.
const autoAdvanceDelay = 600 * time.Millisecond

// DefaultSteps is the production funnel: address first, contact info last,
// everything in between feeds the offer calculation.
func DefaultSteps() []Step {
	return []Step{
		{
			ID:    "address",
			Title: "Where's the property?",
			Fields: []Field{
				{Name: "address", Label: "Property address", Kind: FieldText, Required: true},
			},
		},
		{
			ID:    "user-type",
			Title: "What best describes you?",
			Fields: []Field{
				{Name: "userType", Label: "I am the...", Kind: FieldChoice, Required: true,
					Options: []string{"owner", "agent", "agent-owner", "hoa"}},
			},
		},
		{
			ID:    "property-details",
			Title: "Tell us about the property",
			TitleByUserType: map[UserType]string{
				UserAgent:      "Tell us about your client's property",
				UserAgentOwner: "Tell us about the property you own and list",
			},
			Fields: []Field{
				{Name: "beds", Label: "Bedrooms", Kind: FieldNumber, Required: true},
				{Name: "baths", Label: "Bathrooms", Kind: FieldNumber, Required: true},
				{Name: "sqft", Label: "Square footage", Kind: FieldNumber, Required: false},
				{Name: "yearBuilt", Label: "Year built", Kind: FieldNumber, Required: false},
			},
		},
		{
			ID:               "condition",
			Title:            "How would you rate its condition?",
			AutoAdvanceAfter: autoAdvanceDelay,
			Fields: []Field{
				{Name: "propertyCondition", Label: "Condition", Kind: FieldChoice, Required: true,
					Options: []string{"high-end", "excellent", "good", "fair", "needs-work", "fixer-upper"}},
			},
		},
		{
			ID:    "property-issues",
			Title: "Any known issues?",
			Fields: []Field{
				{Name: "propertyIssues", Label: "Select all that apply", Kind: FieldMultiChoice, Required: false,
					Options: []string{"foundation", "roof-replacement", "mold", "fire-damage", "flood-damage", "unpermitted-additions", "dated-kitchen", "old-carpet"}},
			},
		},
		{
			ID:    "hoa-details",
			Title: "Tell us about the HOA",
			VisibleWhen: func(answers map[string]any) bool {
				ut, _ := answers["userType"].(string)
				return ParseUserType(ut) == UserHOA
			},
			Fields: []Field{
				{Name: "hoaName", Label: "HOA name", Kind: FieldText, Required: true},
				{Name: "hoaMonthlyFee", Label: "Monthly fee", Kind: FieldNumber, Required: false},
			},
		},
		{
			ID:               "timeline",
			Title:            "How soon do you want to sell?",
			TitleByUserType:  map[UserType]string{UserAgent: "How soon does your client want to sell?"},
			AutoAdvanceAfter: autoAdvanceDelay,
			Fields: []Field{
				{Name: "timeline", Label: "Timeline", Kind: FieldChoice, Required: true,
					Options: []string{"asap", "1-3-months", "3-6-months", "6-plus-months", "just-browsing"}},
			},
		},
		{
			ID:    "motivation",
			Title: "What's prompting the sale?",
			Fields: []Field{
				{Name: "motivation", Label: "Reason for selling", Kind: FieldChoice, Required: false,
					Options: []string{"foreclosure", "divorce", "financial", "inheritance", "relocation", "downsizing", "tired-landlord", "curious"}},
			},
		},
		{
			ID:    "price-expectation",
			Title: "What are you hoping to get?",
			Fields: []Field{
				{Name: "sellerPrice", Label: "Asking price", Kind: FieldNumber, Required: false},
				{Name: "estimatedValue", Label: "What you think it's worth", Kind: FieldNumber, Required: false},
			},
		},
		{
			ID:    "contact",
			Title: "Where should we send your offer?",
			Fields: []Field{
				{Name: "name", Label: "Full name", Kind: FieldText, Required: true},
				{Name: "email", Label: "Email", Kind: FieldEmail, Required: true},
				{Name: "phone", Label: "Phone", Kind: FieldPhone, Required: true},
				{Name: "consent", Label: "I agree to be contacted", Kind: FieldChoice, Required: false, Options: []string{"yes", "no"}},
			},
		},
	}
}
