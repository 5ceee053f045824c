package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"chat-relay/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Read-only dump of the store for debugging. Opens the database alongside a
// running server thanks to the lock guard bypass.
func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	prefix := flag.String("prefix", "", "Prefix to scan (msg:, chat:, user:), empty scans everything")
	flag.Parse()

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	header := color.New(color.BgBlack, color.FgGreen).Render(fmt.Sprintf(" %s ", *dbPath))
	fmt.Println(header)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(v []byte) error {
				table.Append([]string{key, rowType(key), describe(key, v)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func rowType(key string) string {
	switch {
	case strings.HasPrefix(key, "msg:"):
		return "MESSAGE"
	case strings.HasPrefix(key, "chat:"):
		return "CHAT"
	case strings.HasPrefix(key, "user:email:"):
		return "EMAIL INDEX"
	case strings.HasPrefix(key, "user:id:"):
		return "USER"
	default:
		return "RAW"
	}
}

func describe(key string, val []byte) string {
	switch {
	case strings.HasPrefix(key, "msg:"):
		var m repositories.DiskMessage
		if err := json.Unmarshal(val, &m); err != nil {
			return fmt.Sprintf("unreadable: %v", err)
		}
		return fmt.Sprintf("[%s] %s: %s", m.At.Format("15:04:05"), shortID(m.Sender), m.Content)
	case strings.HasPrefix(key, "chat:"):
		var c repositories.Chat
		if err := json.Unmarshal(val, &c); err != nil {
			return fmt.Sprintf("unreadable: %v", err)
		}
		return fmt.Sprintf("%s (group=%v, members=%d)", c.Name, c.IsGroup, len(c.Users))
	case strings.HasPrefix(key, "user:id:"):
		var u repositories.User
		if err := json.Unmarshal(val, &u); err != nil {
			return fmt.Sprintf("unreadable: %v", err)
		}
		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
	default:
		return string(val)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
