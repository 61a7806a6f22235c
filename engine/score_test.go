package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pbclarke/tippingapi/models"
)

func result(winner string, band string) *models.Result {
	r := &models.Result{Winner: winner}
	if band != "" {
		r.MarginBand = &band
	}
	return r
}

func TestScore_CorrectWinnerAndMargin(t *testing.T) {
	p := Score("CRU", models.MarginClose, result("CRU", models.BandClose), DrawBonus24)
	assert.Equal(t, Points{Winner: 5, Margin: 3, Total: 8}, p)
}

func TestScore_CorrectWinnerWrongMargin(t *testing.T) {
	p := Score("CRU", models.MarginBlowout, result("CRU", models.BandClose), DrawBonus24)
	assert.Equal(t, Points{Winner: 5, Margin: 0, Total: 5}, p)
}

func TestScore_CorrectWinnerNoBandRecorded(t *testing.T) {
	p := Score("CRU", models.MarginClose, result("CRU", ""), DrawBonus24)
	assert.Equal(t, Points{Winner: 5, Margin: 0, Total: 5}, p)
}

func TestScore_WrongWinner(t *testing.T) {
	p := Score("CRU", models.MarginClose, result("BLU", models.BandClose), DrawBonus24)
	assert.Equal(t, Points{}, p)
}

func TestScore_DrawBonus24(t *testing.T) {
	p := Score(models.Draw, models.MarginNone, result(models.Draw, ""), DrawBonus24)
	assert.Equal(t, Points{Total: 24}, p)
}

func TestScore_DrawWinnerOnly(t *testing.T) {
	p := Score(models.Draw, models.MarginNone, result(models.Draw, ""), DrawWinnerOnly)
	assert.Equal(t, Points{Winner: 5, Total: 5}, p)
}

func TestScore_DrawnResultBeatsEveryOtherPick(t *testing.T) {
	for _, policy := range []DrawPolicy{DrawBonus24, DrawWinnerOnly} {
		assert.Equal(t, Points{}, Score("CRU", models.MarginClose, result(models.Draw, ""), policy))
		assert.Equal(t, Points{}, Score("BLU", models.MarginBlowout, result(models.Draw, ""), policy))
	}
}

func TestScore_Pure(t *testing.T) {
	res := result("CRU", models.BandBlowout)
	first := Score("CRU", models.MarginBlowout, res, DrawBonus24)
	second := Score("CRU", models.MarginBlowout, res, DrawBonus24)
	assert.Equal(t, first, second)
	assert.Equal(t, 8, first.Total)
}

func TestParseDrawPolicy(t *testing.T) {
	p, err := ParseDrawPolicy("bonus24")
	assert.NoError(t, err)
	assert.Equal(t, DrawBonus24, p)

	p, err = ParseDrawPolicy("winner_only")
	assert.NoError(t, err)
	assert.Equal(t, DrawWinnerOnly, p)

	_, err = ParseDrawPolicy("whatever")
	assert.Error(t, err)
}
