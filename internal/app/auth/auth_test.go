package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_Verify(t *testing.T) {
	req := require.New(t)

	store := NewStore(map[string]string{
		"manu":   "manu@123",
		"ishika": "ishika@123",
	})

	req.True(store.Verify("manu", "manu@123"))
	req.True(store.Verify("ishika", "ishika@123"))
	req.False(store.Verify("manu", "wrong"))
	req.False(store.Verify("unknown", "manu@123"))
	req.False(store.Verify("", ""))
}

func TestStore_CopiesInputTable(t *testing.T) {
	req := require.New(t)

	users := map[string]string{"manu": "manu@123"}
	store := NewStore(users)

	users["manu"] = "tampered"

	req.True(store.Verify("manu", "manu@123"))
	req.False(store.Verify("manu", "tampered"))
}
