package engine

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// transcode converts src audio into an mp3 at dest using lame. The output
// is written next to dest and renamed into place, so dest only ever exists
// as a complete artifact.
func transcode(lameBin, flags, src, dest string) error {
	tmp := dest + ".part"
	args := append(strings.Fields(flags), src, tmp)
	if out, err := exec.Command(lameBin, args...).CombinedOutput(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("lame: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return os.Rename(tmp, dest)
}
