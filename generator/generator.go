package generator

import (
	"bytes"
	"encoding/binary"
	"net"

	"github.com/bwmarrin/snowflake"
)

// IDbyIP turns an IPv4 address into a number; zero for anything else.
func IDbyIP(ip string) uint32 {
	var id uint32
	v4 := net.ParseIP(ip).To4()
	if v4 == nil {
		return 0
	}
	binary.Read(bytes.NewBuffer(v4), binary.BigEndian, &id)
	return id
}

// NodeByIP maps a host address onto the 10 bit snowflake node range.
func NodeByIP(ip string) int64 {
	return int64(IDbyIP(ip) % 1024)
}

// RunID returns a new snowflake id identifying one crawl or load run.
func RunID(node int64) (snowflake.ID, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return 0, err
	}
	return n.Generate(), nil
}

// LocalIP returns the first non loopback IPv4 address of the host, "" if none.
func LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}
	return ""
}
