package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/libp2p/go-libp2p/core/crypto"
	pb "github.com/libp2p/go-libp2p/core/crypto/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/mpwsh/splash/config"
)

// TestGenerate 测试生成 Ed25519 密钥
func TestGenerate(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	assert.Equal(t, pb.KeyType_Ed25519, a.Type())
	assert.False(t, a.Equals(b), "每次生成的密钥应不同")

	id, err := PeerID(a)
	require.NoError(t, err)
	assert.NoError(t, id.Validate())

	_, err = PeerID(nil)
	assert.ErrorIs(t, err, ErrNilPrivateKey)

	t.Log("✅ Generate 测试通过")
}

// TestSaveLoad 测试保存后加载得到同一身份
func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.key")
	key, err := Generate()
	require.NoError(t, err)

	require.NoError(t, Save(key, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, key.Equals(loaded))

	// 目录中不残留临时文件
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	t.Log("✅ Save/Load 测试通过")
}

// TestLoad_Errors 测试加载失败
func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.key"))
	assert.ErrorIs(t, err, ErrKeyNotFound)

	garbage := filepath.Join(dir, "garbage.key")
	require.NoError(t, os.WriteFile(garbage, []byte("not a key"), 0600))
	_, err = Load(garbage)
	assert.ErrorIs(t, err, ErrInvalidKeyFile)

	assert.ErrorIs(t, Save(nil, filepath.Join(dir, "nil.key")), ErrNilPrivateKey)

	t.Log("✅ 加载失败测试通过")
}

// TestLoadOrGenerate 测试首次生成、再次加载
func TestLoadOrGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.key")

	first, err := LoadOrGenerate(path)
	require.NoError(t, err)

	second, err := LoadOrGenerate(path)
	require.NoError(t, err)
	assert.True(t, first.Equals(second), "第二次应加载同一密钥")

	t.Log("✅ LoadOrGenerate 测试通过")
}

// TestLoadOrGenerate_UnwritablePath 测试写回失败时仍返回新密钥
func TestLoadOrGenerate_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "identity.key")

	key, err := LoadOrGenerate(path)
	require.NoError(t, err)
	assert.NotNil(t, key)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	t.Log("✅ 写回失败测试通过")
}

// TestModule 测试 Fx 模块按配置提供密钥
func TestModule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.key")
	cfg := config.NewConfig()
	cfg.Identity.KeyFile = path

	var key crypto.PrivKey
	app := fxtest.New(t,
		fx.Supply(cfg),
		Module,
		fx.Populate(&key),
	)
	app.RequireStart()
	app.RequireStop()

	require.NotNil(t, key)
	saved, err := Load(path)
	require.NoError(t, err)
	assert.True(t, key.Equals(saved))

	t.Log("✅ 身份模块测试通过")
}
