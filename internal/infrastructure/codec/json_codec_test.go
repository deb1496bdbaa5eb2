package codec_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/service"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
	"github.com/jip-jung/jipjung-backend-sub000/internal/infrastructure/codec"
)

func scenario(t *testing.T, secondary valueobject.SecondaryLoan) model.AffordabilityInput {
	t.Helper()
	in, err := model.NewAffordabilityInput(model.AffordabilityInput{
		AnnualIncome:              72_000_000,
		Age:                       27,
		Region:                    valueobject.RegionOther,
		ExistingAnnualDebtService: 4_800_000,
		SecondaryLoan:             secondary,
		RateType:                  valueobject.LoanRateTypeMixed,
		NominalRate:               decimal.RequireFromString("4.25"),
		MaturityYears:             40,
		LenderType:                valueobject.LenderTypeNonBank,
	})
	require.NoError(t, err)
	return in
}

func TestJSONCodec_InputRoundTrip(t *testing.T) {
	c := codec.NewJSONCodec()

	t.Run("with secondary loan", func(t *testing.T) {
		sl, err := valueobject.NewSecondaryLoan(150_000_000, decimal.RequireFromString("3.8"), true)
		require.NoError(t, err)
		in := scenario(t, sl)

		data, err := c.Marshal(in)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"region":"OTHER"`)
		assert.Contains(t, string(data), `"target_loan_rate_type":"MIXED"`)
		assert.Contains(t, string(data), `"lender_type":"NON_BANK"`)

		var got model.AffordabilityInput
		require.NoError(t, c.Unmarshal(data, &got))
		assert.Equal(t, in.AnnualIncome, got.AnnualIncome)
		assert.Equal(t, in.Age, got.Age)
		assert.Equal(t, in.Region, got.Region)
		assert.Equal(t, in.RateType, got.RateType)
		assert.Equal(t, in.LenderType, got.LenderType)
		assert.Equal(t, in.MaturityYears, got.MaturityYears)
		assert.True(t, in.NominalRate.Equal(got.NominalRate))
		assert.True(t, got.SecondaryLoan.Present())
		assert.True(t, got.SecondaryLoan.Included())
		assert.Equal(t, int64(150_000_000), got.SecondaryLoan.Balance())
		assert.True(t, decimal.RequireFromString("3.8").Equal(got.SecondaryLoan.Rate()))
	})

	t.Run("without secondary loan", func(t *testing.T) {
		in := scenario(t, valueobject.NoSecondaryLoan())

		data, err := c.Marshal(in)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"secondary_loan":null`)

		var got model.AffordabilityInput
		require.NoError(t, c.Unmarshal(data, &got))
		assert.False(t, got.SecondaryLoan.Present())
		assert.Equal(t, int64(0), got.SecondaryLoan.AnnualInterest())
	})
}

func TestJSONCodec_ResultRoundTrip(t *testing.T) {
	c := codec.NewJSONCodec()
	in := scenario(t, valueobject.NoSecondaryLoan())
	result := service.NewAffordabilityCalculator().CalculateMaxLoan(in, model.Policy2025H2)

	data, err := c.Marshal(result)
	require.NoError(t, err)

	var got model.AffordabilityResult
	require.NoError(t, c.Unmarshal(data, &got))
	assert.True(t, result.CurrentDSRPercent.Equal(got.CurrentDSRPercent))
	assert.True(t, result.DSRAfterMaxLoanPercent.Equal(got.DSRAfterMaxLoanPercent))
	assert.Equal(t, result.Grade, got.Grade)
	assert.Equal(t, result.MaxLoanPrincipal, got.MaxLoanPrincipal)
	assert.Equal(t, result.IncomeRecognized, got.IncomeRecognized)
}

func TestJSONCodec_RejectsUnknownEnum(t *testing.T) {
	c := codec.NewJSONCodec()
	var got model.AffordabilityResult
	err := c.Unmarshal([]byte(`{"grade":"EXCELLENT"}`), &got)
	require.Error(t, err)
}
