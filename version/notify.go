package version

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"github.com/tvxlabs/mediabridge/color"
	"github.com/tvxlabs/mediabridge/constant"
	"github.com/tvxlabs/mediabridge/icon"
	"github.com/tvxlabs/mediabridge/key"
	"github.com/tvxlabs/mediabridge/style"
	"github.com/tvxlabs/mediabridge/util"
)

// Notify displays a terminal alert if a more recent stable application version is available.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest(context.Background())
	erase()
	if err != nil {
		return
	}
	if !Newer(latest, constant.Version) {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/"+constant.Repository+"/releases/tag/v"+latest),
	)
}
