package xid

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// New returns "<prefix><yyyymmddhhmmss>-<8 hex chars>". The timestamp keeps
// ids sortable and human-readable; the uuid suffix keeps two ids minted
// within the same clock second from colliding.
func New(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return prefix + time.Now().UTC().Format("20060102150405") + "-" + suffix
}
