package model_test

import (
	"errors"
	"testing"

	model "github.com/okian/numguess/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestOutcome(t *testing.T) {
	convey.Convey("Given persisted outcome strings", t, func() {
		convey.Convey("When parsing known values", func() {
			win, errWin := model.ParseOutcome("Win")
			loss, errLoss := model.ParseOutcome("Loss")

			convey.Convey("Then they map to outcomes", func() {
				convey.So(errWin, convey.ShouldBeNil)
				convey.So(errLoss, convey.ShouldBeNil)
				convey.So(win, convey.ShouldEqual, model.Win)
				convey.So(loss, convey.ShouldEqual, model.Loss)
			})
		})

		convey.Convey("When parsing an unknown value", func() {
			_, err := model.ParseOutcome("win")

			convey.Convey("Then it is rejected", func() {
				convey.So(errors.Is(err, model.ErrUnknownOutcome), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When converting a win flag", func() {
			convey.So(model.OutcomeOf(true), convey.ShouldEqual, model.Win)
			convey.So(model.OutcomeOf(false), convey.ShouldEqual, model.Loss)
		})
	})
}
