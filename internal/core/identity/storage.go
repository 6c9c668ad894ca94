package identity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/libp2p/go-libp2p/core/crypto"

	"github.com/mpwsh/splash/internal/util/logger"
)

var log = logger.Logger("core/identity")

// Save 将私钥写入文件
func Save(key crypto.PrivKey, path string) error {
	if key == nil {
		return ErrNilPrivateKey
	}
	data, err := crypto.MarshalPrivateKey(key)
	if err != nil {
		return fmt.Errorf("identity: marshal key: %w", err)
	}
	return atomicWriteFile(path, data, 0600)
}

// Load 从文件加载私钥
func Load(path string) (crypto.PrivKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, path)
		}
		return nil, fmt.Errorf("identity: read %s: %w", path, err)
	}

	key, err := crypto.UnmarshalPrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidKeyFile, path, err)
	}
	return key, nil
}

// LoadOrGenerate 加载私钥，失败时生成新密钥并尽力写回
//
// 写回失败只记录警告，仍返回新密钥。
func LoadOrGenerate(path string) (crypto.PrivKey, error) {
	key, err := Load(path)
	if err == nil {
		log.Info("已加载身份密钥", "path", path)
		return key, nil
	}
	log.Warn("无法加载身份密钥，生成新密钥", "path", path, "err", err)

	key, err = Generate()
	if err != nil {
		return nil, err
	}
	if err := Save(key, path); err != nil {
		log.Warn("保存身份密钥失败", "path", path, "err", err)
	} else {
		log.Info("已保存新身份密钥", "path", path)
	}
	return key, nil
}

// ============================================================================
//                              原子写操作
// ============================================================================

// atomicWriteFile 写入同目录临时文件后 rename 到目标路径
//
// 任何步骤失败时目标文件保持不变。
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-")
	if err != nil {
		return fmt.Errorf("identity: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("identity: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("identity: sync temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("identity: chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("identity: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("identity: rename: %w", err)
	}

	committed = true
	return nil
}
