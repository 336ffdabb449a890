package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petnfc-api/internal/config"
	"github.com/petnfc-api/internal/domain"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"email": "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "email"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"otp":            "123456",
		"otp_created_at": "2026-01-01T00:06:05+11:00",
		"otp_version":    3,
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: otp < otp_created_at < otp_version
	assert.Equal(t, "otp", ue1.Names["#f0"])
	assert.Equal(t, "otp_created_at", ue1.Names["#f1"])
	assert.Equal(t, "otp_version", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"is_read": true})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestBuildUpdateExpr_NilRemoves(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"otp":         nil,
		"otp_secret":  nil,
		"otp_version": 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "SET #f2 = :v2 REMOVE #f0, #f1", ue.Expr)
	assert.Len(t, ue.Values, 1)
	assert.Len(t, ue.Names, 3)
}

func TestBuildUpdateExpr_OnlyRemovesHasNoValues(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"otp": nil})
	require.NoError(t, err)
	assert.Equal(t, "REMOVE #f0", ue.Expr)
	assert.Nil(t, ue.Values)

	ue.withValue(":prev", &types.AttributeValueMemberN{Value: "1"})
	assert.Len(t, ue.Values, 1)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestOTPUpdates_ClearedStateRemovesFields(t *testing.T) {
	secret := "JBSWY3DPEHPK3PXP"
	st := domain.OTPState{OTPSecret: &secret, OTPVersion: 2}

	u := otpUpdates(st)
	assert.Equal(t, secret, u[fieldOTPSecret])
	assert.Nil(t, u[fieldOTP])
	assert.Nil(t, u[fieldOTPCreatedAt])
	assert.Equal(t, int64(2), u[fieldOTPVersion])

	ue, err := buildUpdateExpr(u)
	require.NoError(t, err)
	assert.Contains(t, ue.Expr, "REMOVE")
}

func TestCursorRoundTrip(t *testing.T) {
	c := encodeCursor("01HZX")
	got, err := decodeCursor(c)
	require.NoError(t, err)
	assert.Equal(t, "01HZX", got)

	_, err = decodeCursor("%%%")
	assert.Error(t, err)
}

func TestTableDefinitions(t *testing.T) {
	defs := tableDefinitions(config.DynamoTables{
		Users: "users", Notifications: "notifications", Pets: "pets", Scans: "scan_history",
	})
	require.Len(t, defs, 4)

	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = *d.TableName
	}
	assert.Equal(t, []string{"users", "notifications", "pets", "scan_history"}, names)
	assert.Equal(t, indexNotificationsUser, *defs[1].GlobalSecondaryIndexes[0].IndexName)
	assert.Len(t, defs[1].GlobalSecondaryIndexes[0].KeySchema, 2)
}
