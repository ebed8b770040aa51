package seed

import (
	"os"
	"path/filepath"
	"time"

	"github.com/yunae/gamedash/clock"
	"github.com/yunae/gamedash/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FromFiles loads the source spreadsheets from dir and upserts them into the
// database. Safe to re-run: entities are matched by (title, game) and
// updated in place; currency observations are only created when a currency
// has no history yet.
func FromFiles(db *gorm.DB, dir string, clk clock.Clock, logger *zap.Logger) error {
	if _, err := os.Stat(dir); err != nil {
		logger.Warn("seed dir missing, skipping seed", zap.String("dir", dir))
		return nil
	}

	games, err := seedGames(db, filepath.Join(dir, "GameDB.xlsx"), logger)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		return nil
	}
	if err := seedCharacters(db, filepath.Join(dir, "CharacterDB.csv"), games); err != nil {
		return err
	}
	if err := seedCurrencies(db, filepath.Join(dir, "CurrencyDB.csv"), games, clk); err != nil {
		return err
	}
	if err := seedEvents(db, filepath.Join(dir, "EventDB.csv"), games, clk); err != nil {
		return err
	}
	if err := seedSpendings(db, filepath.Join(dir, "SpendingDB.csv"), games, clk); err != nil {
		return err
	}
	logger.Info("seed complete", zap.Int("games", len(games)))
	return nil
}

func seedGames(db *gorm.DB, path string, logger *zap.Logger) (map[string]*model.Game, error) {
	rows, err := LoadXLSXRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headers := rows[0]
	games := make(map[string]*model.Game)
	for _, raw := range rows[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(raw) {
				row[h] = raw[i]
			} else {
				row[h] = ""
			}
		}

		title := row["Title"]
		start := ParseDate(row["StartDate"])
		if title == "" || start == nil {
			continue
		}
		end := ParseDate(row["EndDate"])
		stop := ParseBool(row["StopPlay"], false)
		if end != nil {
			stop = true
		}

		var game model.Game
		err := db.Where("title = ?", title).First(&game).Error
		if err == gorm.ErrRecordNotFound {
			game = model.Game{Title: title}
		} else if err != nil {
			return nil, err
		}
		game.StartDate = *start
		game.EndDate = end
		game.StopPlay = stop
		game.UID = row["UID"]
		game.CouponURL = row["CouponURL"]
		game.Memo = row["Memo"]
		game.RefreshTime = row["RefreshTime"]
		game.GachaPullMessage = row["GachaPullMessage"]
		game.HasEconomyTracking = ParseBool(row["HasEconomyTracking"], true)
		if d := ParseInt(row["RefreshDay"], 0); d >= 1 && d <= 7 {
			game.RefreshDay = &d
		} else {
			game.RefreshDay = nil
		}

		if err := db.Save(&game).Error; err != nil {
			return nil, err
		}
		games[title] = &game
	}
	if len(games) > 0 {
		logger.Info("games seeded", zap.Int("count", len(games)))
	}
	return games, nil
}

func seedCharacters(db *gorm.DB, path string, games map[string]*model.Game) error {
	rows, err := ReadCSVRows(path)
	if err != nil {
		return err
	}
	for _, row := range rows {
		game := games[row["GameDB"]]
		title := row["Title"]
		if game == nil || title == "" {
			continue
		}

		var char model.Character
		err := db.Where("title = ? AND game_id = ?", title, game.ID).First(&char).Error
		if err == gorm.ErrRecordNotFound {
			char = model.Character{Title: title, GameID: game.ID}
		} else if err != nil {
			return err
		}
		char.Level = ParseInt(row["Level"], 0)
		char.Grade = row["Grade"]
		char.Overpower = ParseInt(row["Overpower"], 0)
		char.Position = row["Position"]
		char.Memo = row["Memo"]
		char.IsHave = ParseBool(row["isHave"], true)
		if err := db.Save(&char).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedCurrencies(db *gorm.DB, path string, games map[string]*model.Game, clk clock.Clock) error {
	rows, err := ReadCSVRows(path)
	if err != nil {
		return err
	}
	for _, row := range rows {
		game := games[row["GameDB"]]
		title := row["Title"]
		if game == nil || title == "" {
			continue
		}

		var cur model.Currency
		err := db.Where("title = ? AND game_id = ?", title, game.ID).First(&cur).Error
		if err == gorm.ErrRecordNotFound {
			cur = model.Currency{Title: title, GameID: game.ID}
			if err := db.Create(&cur).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		// Every currency gets at least one observation so current() is
		// always defined; re-seeding never rewrites history.
		var n int64
		if err := db.Model(&model.CurrencyObservation{}).
			Where("currency_id = ?", cur.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		ts := clk.Now()
		if d := ParseDate(row["lateDate"]); d != nil {
			ts = *d
		}
		obs := model.CurrencyObservation{
			CurrencyID: cur.ID,
			Count:      int64(ParseInt(row["Counts"], 0)),
			Timestamp:  ts,
		}
		if err := db.Create(&obs).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedEvents(db *gorm.DB, path string, games map[string]*model.Game, clk clock.Clock) error {
	rows, err := ReadCSVRows(path)
	if err != nil {
		return err
	}
	for _, row := range rows {
		game := games[row["GameDB"]]
		title := row["Title"]
		if game == nil || title == "" {
			continue
		}

		var event model.GameEvent
		err := db.Where("title = ? AND game_id = ?", title, game.ID).First(&event).Error
		if err == gorm.ErrRecordNotFound {
			event = model.GameEvent{Title: title, GameID: game.ID}
		} else if err != nil {
			return err
		}
		start := ParseDate(row["StartDate"])
		if start == nil {
			t := dateOnly(clk.Now())
			start = &t
		}
		event.StartDate = *start
		event.EndDate = ParseDate(row["EndDate"])
		event.Type = row["Type"]
		event.Priority = row["Priority"]
		if err := db.Save(&event).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedSpendings(db *gorm.DB, path string, games map[string]*model.Game, clk clock.Clock) error {
	rows, err := ReadCSVRows(path)
	if err != nil {
		return err
	}
	for _, row := range rows {
		game := games[row["GameDB"]]
		title := row["Title"]
		if game == nil || title == "" {
			continue
		}

		var sp model.Spending
		err := db.Where("title = ? AND game_id = ?", title, game.ID).First(&sp).Error
		if err == gorm.ErrRecordNotFound {
			sp = model.Spending{Title: title, GameID: game.ID}
		} else if err != nil {
			return err
		}
		paying := ParseDate(row["PayingDate"])
		if paying == nil {
			t := dateOnly(clk.Now())
			paying = &t
		}
		sp.Paying = row["Paying"]
		sp.Type = row["Type"]
		sp.PayingDate = *paying
		sp.ExpirationDays = ParseInt(row["ExpirationDate"], 0)
		switch row["RewardMode"] {
		case model.RewardModeDaily, model.RewardModeOnce, model.RewardModeDisabled:
			sp.RewardMode = row["RewardMode"]
		default:
			if sp.RewardMode == "" {
				sp.RewardMode = model.RewardModeDaily
			}
		}
		if err := db.Save(&sp).Error; err != nil {
			return err
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
