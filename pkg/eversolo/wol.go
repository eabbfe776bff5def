package eversolo

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"
)

// WakeOnLAN broadcasts a magic packet for the given MAC address. The
// device cannot be powered on over its HTTP API once it is off, so
// power-on goes through WoL using the MAC captured at connect time.
func WakeOnLAN(mac string) error {
	clean := strings.NewReplacer(":", "", "-", "").Replace(mac)
	hw, err := hex.DecodeString(clean)
	if err != nil || len(hw) != 6 {
		return fmt.Errorf("eversolo: invalid MAC address %q", mac)
	}

	packet := make([]byte, 0, 102)
	packet = append(packet, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
	for i := 0; i < 16; i++ {
		packet = append(packet, hw...)
	}

	conn, err := net.Dial("udp", "255.255.255.255:9")
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Write(packet)
	return err
}
