package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/lib/pq"
	"github.com/okian/pitchside/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMapError(t *testing.T) {
	Convey("Given driver errors", t, func() {
		Convey("Then they map to store sentinels", func() {
			So(mapError(nil, "x"), ShouldBeNil)
			So(errors.Is(mapError(sql.ErrNoRows, "player a"), ErrNotFound), ShouldBeTrue)
			So(errors.Is(mapError(&pq.Error{Code: pqUniqueViolation}, "player a"), ErrConflict), ShouldBeTrue)
			So(errors.Is(mapError(&pq.Error{Code: pqForeignKeyViolation}, "match m"), ErrNotFound), ShouldBeTrue)
			So(errors.Is(mapError(&pq.Error{Code: pqCheckViolation}, "player a"), model.ErrInvalidRecord), ShouldBeTrue)
		})

		Convey("Then other errors are wrapped unchanged", func() {
			base := errors.New("boom")
			err := mapError(base, "player a")
			So(errors.Is(err, base), ShouldBeTrue)
			So(errors.Is(err, ErrNotFound), ShouldBeFalse)
		})
	})
}

// TestPostgresStore runs against a live database when PITCHSIDE_TEST_POSTGRES_DSN is set.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("PITCHSIDE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PITCHSIDE_TEST_POSTGRES_DSN not set")
	}

	Convey("Given a fresh postgres store", t, func() {
		ctx := context.Background()
		n := 0
		prefix := fmt.Sprintf("t%d-", os.Getpid())
		s, err := NewPostgresStore(ctx, dsn, WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("%s%d", prefix, n)
		}))
		So(err, ShouldBeNil)
		Reset(func() {
			_, _ = s.db.ExecContext(ctx, `DELETE FROM matches WHERE id LIKE $1`, prefix+"%")
			_, _ = s.db.ExecContext(ctx, `DELETE FROM players WHERE id LIKE $1`, prefix+"%")
			_, _ = s.db.ExecContext(ctx, `DELETE FROM seasons WHERE id LIKE $1`, prefix+"%")
			_ = s.Close()
		})

		ana, err := s.CreatePlayer(ctx, model.Player{Name: "Ana"})
		So(err, ShouldBeNil)
		bo, err := s.CreatePlayer(ctx, model.Player{Name: "Bo"})
		So(err, ShouldBeNil)

		Convey("When a match is recorded and deleted", func() {
			m, err := s.RecordMatch(ctx, model.Match{
				TeamA: model.Lineup{PlayerIDs: []string{ana.ID}, Score: 2},
				TeamB: model.Lineup{PlayerIDs: []string{bo.ID}, Score: 0},
				Goals: []model.Goal{{PlayerID: ana.ID, Minute: 3}, {PlayerID: ana.ID, Minute: 9}},
			})
			So(err, ShouldBeNil)

			got, err := s.GetPlayer(ctx, ana.ID)
			So(err, ShouldBeNil)
			So(got.Wins, ShouldEqual, 1)
			So(got.Goals, ShouldEqual, 2)

			stored, err := s.GetMatch(ctx, m.ID)
			So(err, ShouldBeNil)
			So(stored.Goals, ShouldHaveLength, 2)

			So(s.DeleteMatch(ctx, m.ID), ShouldBeNil)
			got, _ = s.GetPlayer(ctx, ana.ID)
			So(got.Matches, ShouldEqual, 0)
		})

		Convey("When a match names an unknown player", func() {
			_, err := s.RecordMatch(ctx, model.Match{
				TeamA: model.Lineup{PlayerIDs: []string{ana.ID}},
				TeamB: model.Lineup{PlayerIDs: []string{prefix + "ghost"}},
			})

			Convey("Then the transaction rolls back", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				got, _ := s.GetPlayer(ctx, ana.ID)
				So(got.Matches, ShouldEqual, 0)
			})
		})

		Convey("When a setting is written twice", func() {
			So(s.SetSettings(ctx, map[string]string{prefix + "k": "1"}), ShouldBeNil)
			So(s.SetSettings(ctx, map[string]string{prefix + "k": "2", prefix + "j": "3"}), ShouldBeNil)
			v, err := s.GetSetting(ctx, prefix+"k")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "2")
			v, err = s.GetSetting(ctx, prefix+"j")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "3")
			_, _ = s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ANY($1)`, pq.Array([]string{prefix + "k", prefix + "j"}))
		})
	})
}
