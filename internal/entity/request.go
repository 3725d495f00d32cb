package entity

import (
	"context"
	"regexp"
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

func (r *CreateUserRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Name == "" {
		problems["Name"] = append(problems["Name"], "Name is required")
	}
	if r.Email == "" {
		problems["Email"] = append(problems["Email"], "Email is required")
	}

	if r.Username == "" {
		problems["Username"] = append(problems["Username"], "Username is required")
	}

	if len(r.Username) > 16 {
		problems["Username"] = append(problems["Username"], "User name is too long")
	}

	if r.Password == "" {
		problems["Password"] = append(problems["Password"], "Password is required")
	}

	if len([]byte(r.Password)) > 72 {
		problems["Password"] = append(problems["Password"], "Password length should not exceed 72 bytes")
	}

	return problems
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

func (r *SignInRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Email == "" && r.Username == "" {
		problems["Email/Username"] = append(problems["Email/Username"], "Either Email or Username is required")
	}

	if r.Email != "" {
		emailRegex := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
		if !regexp.MustCompile(emailRegex).MatchString(r.Email) {
			problems["Email"] = append(problems["Email"], "Invalid email format")
		}
	}

	if r.Password == "" {
		problems["Password"] = append(problems["Password"], "Password is required")
	}

	return problems
}

type FeedRequest struct {
	Category    string   `json:"category" query:"category"`
	ListingType string   `json:"listing_type" query:"listing_type"`
	MinPrice    *float64 `json:"min_price" query:"min_price"`
	MaxPrice    *float64 `json:"max_price" query:"max_price"`
	PetsAllowed *bool    `json:"pets_allowed" query:"pets_allowed"`
	Furnished   *bool    `json:"furnished" query:"furnished"`
	PageOffset  int      `json:"page_offset" query:"page_offset"`
	PageSize    int      `json:"page_size" query:"page_size"`
}

func (r *FeedRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Category != "" && !Category(r.Category).IsValid() {
		problems["Category"] = append(problems["Category"], "Unknown category")
	}

	if r.ListingType != "" && r.ListingType != string(ListingTypeRent) && r.ListingType != string(ListingTypeSale) {
		problems["ListingType"] = append(problems["ListingType"], "Listing type must be rent or sale")
	}

	if r.PageSize < 0 || r.PageSize > 50 {
		problems["PageSize"] = append(problems["PageSize"], "Page size must be between 0 and 50")
	}

	return problems
}

type SwipeRequest struct {
	Direction  string `json:"direction"`
	TargetType string `json:"target_type"`
}

func (r *SwipeRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if _, ok := ParseDirection(r.Direction); !ok {
		problems["Direction"] = append(problems["Direction"], "Direction must be left or right")
	}

	if r.TargetType != "" && r.TargetType != string(TargetListing) && r.TargetType != string(TargetProfile) {
		problems["TargetType"] = append(problems["TargetType"], "Target type must be listing or profile")
	}

	return problems
}
