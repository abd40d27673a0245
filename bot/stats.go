package bot

import (
	"fmt"

	"github.com/m3rciful/pickbot/core/buildinfo"
)

func statsText(active int) string {
	return fmt.Sprintf(textStats, buildinfo.Version, buildinfo.Commit, active)
}
