package chat

// ConversationKey derives the canonical identifier for the pair of identities
// (a, b). The two usernames are ordered bytewise and joined with '-', so
// ConversationKey(a, b) == ConversationKey(b, a) and distinct unordered pairs
// never collide: '-' is excluded from the username charset at registration.
func ConversationKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "-" + b
}
