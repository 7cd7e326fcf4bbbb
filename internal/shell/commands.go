package shell

import (
	"context"
	"errors"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"github.com/iliyamo/box-office/internal/boxoffice"
	"github.com/iliyamo/box-office/internal/model"
)

func (s *Shell) register() map[string]*command {
	cmds := []*command{
		{
			name:    "buy",
			usage:   "buy <date> <showtime> <auditorium>",
			help:    "Buy a ticket.\n<date> format: yyyymmdd\n<showtime>: m for matinee, n for night\n<auditorium>: 1 - 5 (one character)",
			minArgs: 3, maxArgs: 3,
			run: s.buy,
		},
		{
			name:    "refund",
			usage:   "refund <serial_number>",
			help:    "Refund a ticket.\n<serial_number> is provided when you buy the ticket.",
			minArgs: 1, maxArgs: 1,
			run: s.refund,
		},
		{
			name:    "r_event",
			usage:   "r_event <date> <showtime> <auditorium>",
			help:    "Report tickets sold and vacant seats for any showtime, past or future.\n<date> format: yyyymmdd\n<showtime>: m for matinee, n for night\n<auditorium>: 1 - 5",
			minArgs: 3, maxArgs: 3,
			run: s.reportEvent,
		},
		{
			name:    "r_day",
			usage:   "r_day <date>",
			help:    "Report the total number of tickets sold on a date.\n<date> format: yyyymmdd",
			minArgs: 1, maxArgs: 1,
			run: s.reportDay,
		},
		{
			name:    "r_all",
			usage:   "r_all",
			help:    "List every event with tickets sold so far.",
			minArgs: 0, maxArgs: 0,
			run: s.reportAll,
		},
		{
			name:    "help",
			usage:   "help [command]",
			help:    "List commands, or show how to use one.",
			minArgs: 0, maxArgs: 1,
			run: s.help,
		},
		{
			name:    "quit",
			usage:   "quit [message]",
			help:    "Quit the app.",
			minArgs: 0, maxArgs: -1,
			run: s.quit,
		},
	}

	m := make(map[string]*command, len(cmds))
	for _, c := range cmds {
		m[c.name] = c
	}
	return m
}

func (s *Shell) buy(ctx context.Context, args []string) bool {
	ticket, err := s.office.Buy(ctx, args[0], args[1], args[2])
	switch {
	case err == nil:
		s.printf("Success! Your serial number: %s\nPrice tier: %s\n", ticket.Serial, ticket.Tier)
	case errors.Is(err, boxoffice.ErrOutsideWindow):
		s.println("Cannot buy tickets for this day.")
	case errors.Is(err, boxoffice.ErrSoldOut):
		s.println("Ticket for this event is sold out.")
	default:
		s.fail(err)
	}
	return false
}

func (s *Shell) refund(ctx context.Context, args []string) bool {
	tier, err := s.office.Refund(ctx, args[0])
	switch {
	case err == nil:
		s.printf("Refund value: %s\n", tier)
	case errors.Is(err, boxoffice.ErrExpired):
		s.println("Cannot refund. Time has past.")
	case errors.Is(err, boxoffice.ErrTicketNotFound):
		s.println("Did not find ticket record for this event.")
	default:
		s.fail(err)
	}
	return false
}

func (s *Shell) reportEvent(_ context.Context, args []string) bool {
	stats, err := s.office.ReportEvent(args[0], args[1], args[2])
	switch {
	case err == nil:
		s.printf("Current event on %s %s in Auditorium %s\nhas sold %d tickets, has %d vacant seats\n",
			args[0], model.Period(args[1]).Label(), args[2], stats.Sold, stats.Vacant)
	case errors.Is(err, boxoffice.ErrEventNotFound):
		s.println("Did not find event.")
	default:
		s.fail(err)
	}
	return false
}

func (s *Shell) reportDay(_ context.Context, args []string) bool {
	sales, err := s.office.ReportDay(args[0])
	switch {
	case err == nil:
		s.printf("%d tickets sold on day %s\n", sales.Sold, sales.Date)
	case errors.Is(err, boxoffice.ErrNoData):
		s.println("No data found.")
	default:
		s.fail(err)
	}
	return false
}

func (s *Shell) reportAll(_ context.Context, _ []string) bool {
	events := s.office.Events()
	if len(events) == 0 {
		s.println("No data found.")
		return false
	}

	t := table.NewWriter()
	t.SetOutputMirror(s.out)
	t.AppendHeader(table.Row{"Date", "Showtime", "Auditorium", "Tier", "Sold", "Vacant"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	for _, ev := range events {
		t.AppendRow(table.Row{
			ev.Key.Date,
			ev.Key.Period.Label(),
			ev.Key.Auditorium,
			ev.Stats.Tier,
			ev.Stats.Sold,
			ev.Stats.Vacant,
		})
	}
	t.Render()
	return false
}

func (s *Shell) help(_ context.Context, args []string) bool {
	if len(args) == 1 {
		cmd, ok := s.commands[args[0]]
		if !ok {
			s.printf("*** No help on %s\n", args[0])
			return false
		}
		s.printf("%s\nInput: %s\n", cmd.help, cmd.usage)
		return false
	}

	s.println()
	s.println("Documented commands (type help <topic>):")
	s.println("========================================")
	s.println(strings.Join(s.names(), "  "))
	s.println()
	return false
}

func (s *Shell) quit(_ context.Context, args []string) bool {
	s.println(strings.TrimSpace("Goodbye. " + strings.Join(args, " ")))
	return true
}

func (s *Shell) fail(err error) {
	if boxoffice.IsInputError(err) {
		s.printf("Invalid input: %v\n", err)
		return
	}
	s.zaplog.Error("shell command failed", zap.Error(err))
	s.printf("Error: %v\n", err)
}
