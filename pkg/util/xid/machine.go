package xid

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// osHostname 测试注入点
var osHostname = os.Hostname

const (
	// EnvMachineID 直接指定机器 ID 的环境变量（0-65535）
	EnvMachineID = "XSINK_MACHINE_ID"

	// EnvPodName K8s Pod 名称（Downward API 注入）
	EnvPodName = "POD_NAME"

	// EnvHostname 主机名环境变量
	EnvHostname = "HOSTNAME"
)

// DefaultMachineID 获取机器 ID
func DefaultMachineID() (uint16, error) {
	if s := os.Getenv(EnvMachineID); s != "" {
		id, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvMachineID, s, err)
		}
		return uint16(id), nil
	}
	for _, env := range []string{EnvPodName, EnvHostname} {
		if v := os.Getenv(env); v != "" {
			return hashToMachineID(v), nil
		}
	}
	host, err := osHostname()
	if err != nil {
		return 0, fmt.Errorf("%w: resolve hostname: %w", ErrInvalidConfig, err)
	}
	if host == "" {
		return 0, fmt.Errorf("%w: empty hostname", ErrInvalidConfig)
	}
	return hashToMachineID(host), nil
}

// hashToMachineID xxhash 后折叠为 16 位
func hashToMachineID(s string) uint16 {
	sum := xxhash.Sum64String(s)
	return uint16(sum>>48) ^ uint16(sum>>32) ^ uint16(sum>>16) ^ uint16(sum)
}
