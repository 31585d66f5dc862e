package drop

import (
	"testing"

	"github.com/iov-one/geodrop/coin"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/geodroptest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDropLifecycle(t *testing.T) {
	Convey("Given an initialized engine where Alice holds 2000", t, func() {
		f := newFixture(t)
		alice := geodroptest.NewKey()
		bob := geodroptest.NewKey()
		carol := geodroptest.NewKey()
		f.fund(t, alice, 2000)

		aliceAddr := geodroptest.KeyAddress(alice)
		bobAddr := geodroptest.KeyAddress(bob)

		Convey("Alice drops 1000 with a message", func() {
			id, err := f.create(t, alice, 1000, "hi")
			So(err, ShouldBeNil)
			So(id, ShouldEqual, 1)

			count, err := f.ctrl.GetDropCount(f.db)
			So(err, ShouldBeNil)
			So(count, ShouldEqual, 1)

			d, err := f.ctrl.GetDrop(f.db, id)
			So(err, ShouldBeNil)
			So(d, ShouldResemble, &Drop{
				ID:      1,
				Creator: aliceAddr,
				Amount:  coin.NewInt128p(1000),
				Message: "hi",
			})
			So(f.balance(t, aliceAddr), ShouldResemble, coin.NewInt128(1000))
			So(f.balance(t, CustodyAddress), ShouldResemble, coin.NewInt128(1000))

			Convey("Bob claims it", func() {
				So(f.claim(t, bob, id), ShouldBeNil)

				d, err := f.ctrl.GetDrop(f.db, id)
				So(err, ShouldBeNil)
				So(d.Claimed, ShouldBeTrue)
				So(d.Claimer, ShouldResemble, bobAddr)
				So(f.balance(t, bobAddr), ShouldResemble, coin.NewInt128(1000))
				So(f.balance(t, CustodyAddress), ShouldResemble, coin.Int128{})

				Convey("Carol cannot claim it again", func() {
					err := f.claim(t, carol, id)
					So(ErrAlreadyClaimed.Is(err), ShouldBeTrue)

					again, err := f.ctrl.GetDrop(f.db, id)
					So(err, ShouldBeNil)
					So(again, ShouldResemble, d)
					So(f.balance(t, geodroptest.KeyAddress(carol)), ShouldResemble, coin.Int128{})
					So(f.balance(t, bobAddr), ShouldResemble, coin.NewInt128(1000))
				})

				Convey("Bob cannot claim it twice either", func() {
					err := f.claim(t, bob, id)
					So(ErrAlreadyClaimed.Is(err), ShouldBeTrue)
					So(f.balance(t, bobAddr), ShouldResemble, coin.NewInt128(1000))
				})

				Convey("Alice can no longer cancel it", func() {
					err := f.cancel(t, alice, id)
					So(ErrAlreadyClaimed.Is(err), ShouldBeTrue)
					So(f.balance(t, aliceAddr), ShouldResemble, coin.NewInt128(1000))
				})
			})

			Convey("Bob cannot cancel it, even with a valid credential", func() {
				err := f.cancel(t, bob, id)
				So(ErrNotCreator.Is(err), ShouldBeTrue)

				again, err := f.ctrl.GetDrop(f.db, id)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, d)
				So(f.balance(t, CustodyAddress), ShouldResemble, coin.NewInt128(1000))
			})

			Convey("A second drop of 500 is cancelled by Alice", func() {
				second, err := f.create(t, alice, 500, "m")
				So(err, ShouldBeNil)
				So(second, ShouldEqual, 2)
				So(f.balance(t, aliceAddr), ShouldResemble, coin.NewInt128(500))

				So(f.cancel(t, alice, second), ShouldBeNil)
				So(f.balance(t, aliceAddr), ShouldResemble, coin.NewInt128(1000))

				_, err = f.ctrl.GetDrop(f.db, second)
				So(errors.ErrNotFound.Is(err), ShouldBeTrue)

				Convey("The id is dead for good", func() {
					So(errors.ErrNotFound.Is(f.claim(t, bob, second)), ShouldBeTrue)
					So(errors.ErrNotFound.Is(f.cancel(t, alice, second)), ShouldBeTrue)

					next, err := f.create(t, alice, 1, "next")
					So(err, ShouldBeNil)
					So(next, ShouldEqual, 3)
				})
			})
		})

		Convey("A zero amount is rejected", func() {
			_, err := f.create(t, alice, 0, "m")
			So(errors.ErrInvalidAmount.Is(err), ShouldBeTrue)

			count, err := f.ctrl.GetDropCount(f.db)
			So(err, ShouldBeNil)
			So(count, ShouldEqual, 0)
		})

		Convey("Bob has nothing to drop", func() {
			_, err := f.create(t, bob, 1, "m")
			So(ErrTransferFailed.Is(err), ShouldBeTrue)

			count, err := f.ctrl.GetDropCount(f.db)
			So(err, ShouldBeNil)
			So(count, ShouldEqual, 0)
		})

		Convey("A credential of another key is refused", func() {
			msg := &CreateDropMsg{
				Creator: aliceAddr,
				Amount:  coin.NewInt128p(10),
			}
			msg.Credential = f.sign(t, bob, msg)
			_, err := f.ctrl.CreateDrop(f.ctx, f.db, msg)
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
		})

		Convey("A credential for other arguments is refused", func() {
			msg := &CreateDropMsg{
				Creator: aliceAddr,
				Amount:  coin.NewInt128p(10),
			}
			msg.Credential = f.sign(t, alice, msg)
			msg.Amount = coin.NewInt128p(1500)
			_, err := f.ctrl.CreateDrop(f.ctx, f.db, msg)
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			So(f.balance(t, aliceAddr), ShouldResemble, coin.NewInt128(2000))
		})

		Convey("A replayed credential is refused", func() {
			msg := &CreateDropMsg{
				Creator: aliceAddr,
				Amount:  coin.NewInt128p(10),
			}
			msg.Credential = f.sign(t, alice, msg)
			_, err := f.ctrl.CreateDrop(f.ctx, f.db, msg)
			So(err, ShouldBeNil)
			_, err = f.ctrl.CreateDrop(f.ctx, f.db, msg)
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			So(f.balance(t, aliceAddr), ShouldResemble, coin.NewInt128(1990))
		})
	})
}
