package iox

import (
	"io"
	"os"
)

// CopyFile copies src to dst byte for byte, keeping src's permission bits.
// dst is created or truncated.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer DiscardClose(in)

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		DiscardClose(out)
		return err
	}
	return out.Close()
}
