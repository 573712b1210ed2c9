package activity

import "fmt"

const hashedKeyPrefix = "key-hash-"

// KeyDisplayLabel derives the display string for an API key bucket.
//
// The base name is the key alias when present, otherwise a synthetic
// hashed-identifier fallback. A team identifier on the metadata qualifies the
// base name with the team's alias when the team is known, or with the raw
// team identifier when it is not (including when no team list was supplied).
func KeyDisplayLabel(meta EntityMetadata, keyID string, teams []Team) string {
	name := hashedKeyPrefix + keyID
	if meta.KeyAlias != nil && *meta.KeyAlias != "" {
		name = *meta.KeyAlias
	}
	if meta.TeamID == nil || *meta.TeamID == "" {
		return name
	}
	for _, team := range teams {
		if team.TeamID == *meta.TeamID {
			return fmt.Sprintf("%s (team: %s)", name, team.TeamAlias)
		}
	}
	return fmt.Sprintf("%s (team_id: %s)", name, *meta.TeamID)
}
