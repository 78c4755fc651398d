package store

import (
	"strconv"
	"strings"
)

// Shared store key formats. Every service reads these, so changing one
// is a protocol change, not a refactor.
const (
	onlinePlayersKey = "online_players"
	dirtyScanPattern = "character:*:dirty"
)

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func accountSessionKey(accountID int64) string {
	return "session:account:" + strconv.FormatInt(accountID, 10)
}

func charKey(characterID int64) string {
	return "char:" + strconv.FormatInt(characterID, 10)
}

func dirtyKey(characterID int64) string {
	return "character:" + strconv.FormatInt(characterID, 10) + ":dirty"
}

func zoneChannelKey(zoneID, channelID int32) string {
	return "zone:" + strconv.FormatInt(int64(zoneID), 10) +
		":channel:" + strconv.FormatInt(int64(channelID), 10)
}

func rateLimitKey(ip, action string) string {
	return "rate_limit:" + ip + ":" + action
}

// parseDirtyKey extracts the character id from a write-back marker.
// Keys whose middle segment is not a positive number are skipped by
// the scanner, never treated as errors.
func parseDirtyKey(key string) (int64, bool) {
	parts := strings.Split(key, ":")
	if len(parts) != 3 || parts[0] != "character" || parts[2] != "dirty" {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
