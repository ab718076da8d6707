package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Spok95/warehouse-ops/internal/domain/audit"
	"github.com/Spok95/warehouse-ops/internal/domain/inventory"
	"github.com/Spok95/warehouse-ops/internal/domain/orders"
	"github.com/Spok95/warehouse-ops/internal/domain/users"
	"github.com/Spok95/warehouse-ops/internal/report"
)

func exportCmd(configPath *string) *cobra.Command {
	var (
		outDir      string
		warehouseID int64
		status      string
		toTelegram  bool
	)

	cmd := &cobra.Command{
		Use:       "export inventory|orders",
		Short:     "Export inventory items or orders to XLSX",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"inventory", "orders"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := open(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			kind := args[0]
			var buf *bytes.Buffer
			switch kind {
			case "inventory":
				items, err := a.inventory.List(ctx, inventory.Filter{
					WarehouseID: warehouseID,
					Status:      inventory.Status(status),
				})
				if err != nil {
					return err
				}
				buf, err = report.Inventory(items)
				if err != nil {
					return err
				}
			case "orders":
				list, err := a.orders.List(ctx, orders.Filter{
					WarehouseID: warehouseID,
					Status:      orders.Status(status),
				})
				if err != nil {
					return err
				}
				buf, err = report.Orders(list)
				if err != nil {
					return err
				}
			}

			name := report.FileName(kind, time.Now().In(cfg.Location()))
			if toTelegram {
				if a.telegram == nil {
					return fmt.Errorf("telegram is not configured")
				}
				if err := a.telegram.SendDocument(name, buf, "Выгрузка: "+kind); err != nil {
					return fmt.Errorf("send %s: %w", name, err)
				}
				log.Info("export sent to telegram", "file", name)
				return nil
			}

			path := filepath.Join(outDir, name)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return err
			}
			log.Info("export written", "file", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	cmd.Flags().Int64Var(&warehouseID, "warehouse", 0, "Only this warehouse")
	cmd.Flags().StringVar(&status, "status", "", "Only this status")
	cmd.Flags().BoolVar(&toTelegram, "telegram", false, "Send the file to the admin chat instead of writing it")
	return cmd
}

// alertsCmd рассылает уведомления по всем позициям на минимальном уровне.
func alertsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Send low-stock alerts for every item at or below its minimum level",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := open(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			if a.telegram == nil {
				return fmt.Errorf("telegram is not configured")
			}
			items, err := a.inventory.LowStock(ctx)
			if err != nil {
				return err
			}
			for _, it := range items {
				a.telegram.StockAlert(ctx, it)
			}
			log.Info("low-stock alerts sent", "count", len(items))
			return nil
		},
	}
}

var entityTypes = map[string]audit.EntityType{
	"inventory": audit.EntityInventory,
	"order":     audit.EntityOrder,
	"supplier":  audit.EntitySupplier,
	"warehouse": audit.EntityWarehouse,
}

// historyCmd печатает журнал действий по сущности; для заказа добавляется
// история статусов, для склада история загрузки.
func historyCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "history inventory|order|supplier|warehouse ID",
		Short:     "Print the activity log of one entity as JSON",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"inventory", "order", "supplier", "warehouse"},
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, ok := entityTypes[args[0]]
			if !ok {
				return fmt.Errorf("unknown entity %q", args[0])
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[1])
			}

			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := open(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			out := map[string]any{}
			out["activity"], err = audit.NewRepo().ListByEntity(ctx, a.pool, entity, id)
			if err != nil {
				return err
			}
			switch entity {
			case audit.EntityOrder:
				if out["status_history"], err = a.orders.History(ctx, id); err != nil {
					return err
				}
			case audit.EntityWarehouse:
				if out["capacity_history"], err = a.warehouses.CapacityHistory(ctx, id); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func usersCmd(configPath *string) *cobra.Command {
	var (
		fullName string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users referenced as managers and approvers",
	}

	add := &cobra.Command{
		Use:   "add EMAIL",
		Short: "Create a user or update an existing one by email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := users.Role(role)
			switch r {
			case users.RoleStaff, users.RoleManager, users.RoleAdmin:
			default:
				return fmt.Errorf("invalid role %q", role)
			}

			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := open(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			u, err := users.NewRepo(a.pool).Upsert(ctx, args[0], fullName, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", u.ID, u.Email, u.Role)
			return nil
		},
	}
	add.Flags().StringVar(&fullName, "name", "", "Full name")
	add.Flags().StringVar(&role, "role", string(users.RoleStaff), "Role: staff, manager or admin")

	cmd.AddCommand(add)
	return cmd
}
