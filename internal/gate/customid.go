package gate

import (
	"fmt"
	"strings"

	"github.com/mizuki1229/Discord-gekou/pkg/util"
)

const verifyPrefix = "verify:"

// EncodeVerifyID builds the component custom id for a verification button.
// The target role id rides inside the id so the gate can recover it from the
// interaction alone, without any server-side session.
func EncodeVerifyID(roleID string) string {
	return verifyPrefix + roleID
}

// DecodeVerifyID extracts and validates the role id from a verification
// button custom id.
func DecodeVerifyID(customID string) (string, error) {
	if !strings.HasPrefix(customID, verifyPrefix) {
		return "", fmt.Errorf("not a verification control: %q", customID)
	}
	roleID := strings.TrimPrefix(customID, verifyPrefix)
	if !util.IsSnowflake(roleID) {
		return "", fmt.Errorf("malformed role id in control: %q", customID)
	}
	return roleID, nil
}

// IsVerifyID reports whether a custom id belongs to the verification gate.
func IsVerifyID(customID string) bool {
	return strings.HasPrefix(customID, verifyPrefix)
}
