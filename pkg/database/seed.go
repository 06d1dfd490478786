package database

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sql_practice_backend/pkg/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// PracticeTables 练习库中的业务表
var PracticeTables = []string{"customers", "products", "orders", "order_items", "employees", "sales"}

var practiceSchema = []string{
	`CREATE TABLE customers (
		customer_id INTEGER PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		phone TEXT,
		city TEXT,
		state TEXT,
		country TEXT,
		registration_date DATE NOT NULL,
		is_active INTEGER DEFAULT 1
	)`,
	`CREATE TABLE products (
		product_id INTEGER PRIMARY KEY,
		product_name TEXT NOT NULL,
		category TEXT NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		cost DECIMAL(10,2) NOT NULL,
		stock_quantity INTEGER DEFAULT 0,
		supplier TEXT
	)`,
	`CREATE TABLE orders (
		order_id INTEGER PRIMARY KEY,
		customer_id INTEGER NOT NULL,
		order_date DATE NOT NULL,
		ship_date DATE,
		total_amount DECIMAL(10,2) NOT NULL,
		status TEXT NOT NULL,
		FOREIGN KEY (customer_id) REFERENCES customers(customer_id)
	)`,
	`CREATE TABLE order_items (
		order_item_id INTEGER PRIMARY KEY,
		order_id INTEGER NOT NULL,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL,
		discount DECIMAL(5,2) DEFAULT 0,
		FOREIGN KEY (order_id) REFERENCES orders(order_id),
		FOREIGN KEY (product_id) REFERENCES products(product_id)
	)`,
	`CREATE TABLE employees (
		employee_id INTEGER PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		department TEXT NOT NULL,
		position TEXT NOT NULL,
		salary DECIMAL(10,2) NOT NULL,
		hire_date DATE NOT NULL,
		manager_id INTEGER,
		FOREIGN KEY (manager_id) REFERENCES employees(employee_id)
	)`,
	`CREATE TABLE sales (
		sale_id INTEGER PRIMARY KEY,
		employee_id INTEGER NOT NULL,
		sale_date DATE NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		region TEXT NOT NULL,
		FOREIGN KEY (employee_id) REFERENCES employees(employee_id)
	)`,
}

var (
	firstNames = []string{
		"John", "Emma", "Michael", "Sarah", "David", "Lisa", "Robert", "Jennifer", "James", "Mary",
		"William", "Patricia", "Richard", "Linda", "Joseph", "Barbara", "Thomas", "Elizabeth", "Charles", "Susan",
		"Christopher", "Jessica", "Daniel", "Karen", "Matthew", "Nancy", "Anthony", "Betty", "Mark", "Margaret",
		"Donald", "Sandra", "Steven", "Ashley", "Paul", "Kimberly", "Andrew", "Emily", "Joshua", "Donna",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
		"Hernandez", "Lopez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee",
		"Thompson", "White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker", "Young",
	}
	cities = [][2]string{
		{"New York", "NY"}, {"Los Angeles", "CA"}, {"Chicago", "IL"}, {"Houston", "TX"}, {"Phoenix", "AZ"},
		{"Philadelphia", "PA"}, {"San Antonio", "TX"}, {"San Diego", "CA"}, {"Dallas", "TX"}, {"San Jose", "CA"},
		{"Austin", "TX"}, {"Jacksonville", "FL"}, {"Columbus", "OH"}, {"Charlotte", "NC"}, {"San Francisco", "CA"},
		{"Seattle", "WA"}, {"Denver", "CO"}, {"Washington", "DC"}, {"Boston", "MA"}, {"Nashville", "TN"},
		{"Detroit", "MI"}, {"Portland", "OR"}, {"Las Vegas", "NV"}, {"Baltimore", "MD"}, {"Atlanta", "GA"},
		{"Miami", "FL"}, {"Minneapolis", "MN"}, {"Tampa", "FL"}, {"New Orleans", "LA"}, {"Raleigh", "NC"},
	}
	departments = []string{"Sales", "Marketing", "IT", "HR", "Finance", "Operations", "Customer Service"}
	positions   = map[string][]string{
		"Sales":            {"Manager", "Senior Rep", "Rep", "Associate"},
		"Marketing":        {"Manager", "Specialist", "Coordinator", "Analyst"},
		"IT":               {"Manager", "Developer", "Engineer", "Support"},
		"HR":               {"Manager", "Specialist", "Coordinator", "Recruiter"},
		"Finance":          {"Manager", "Analyst", "Accountant", "Clerk"},
		"Operations":       {"Manager", "Coordinator", "Specialist", "Associate"},
		"Customer Service": {"Supervisor", "Rep", "Associate", "Intern"},
	}
	salaryRanges = map[string][2]float64{
		"Director":    {90000, 120000},
		"Manager":     {70000, 95000},
		"Senior Rep":  {60000, 80000},
		"Developer":   {75000, 100000},
		"Engineer":    {70000, 95000},
		"Specialist":  {50000, 70000},
		"Rep":         {40000, 60000},
		"Coordinator": {45000, 65000},
		"Analyst":     {55000, 75000},
		"Accountant":  {50000, 70000},
		"Supervisor":  {50000, 70000},
		"Associate":   {35000, 50000},
		"Clerk":       {30000, 45000},
		"Recruiter":   {45000, 65000},
		"Support":     {40000, 60000},
		"Intern":      {25000, 35000},
	}
	regions       = []string{"North", "South", "East", "West", "Central"}
	orderStatuses = []string{"Completed", "Completed", "Completed", "Shipped", "Processing"}
	discounts     = []float64{0, 0, 0, 0.05, 0.10}
)

type product struct {
	name, category, supplier string
	price, cost              float64
	stock                    int
}

// Seed 生成练习库，文件已存在且未指定 force 时不做任何事
func Seed(path string, force bool) error {
	if PracticeExists(path) {
		if !force {
			logger.Log.Info("Practice database already exists", zap.String("path", path))
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove practice database: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create practice db dir: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return fmt.Errorf("sqlx.Connect > %w", err)
	}
	defer db.Close()

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, ddl := range practiceSchema {
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	// 固定种子，每次生成的数据一致
	r := rand.New(rand.NewPCG(20240101, 42))
	s := &seeder{tx: tx, r: r}
	for _, step := range []func() error{s.seedCustomers, s.seedProducts, s.seedOrders, s.seedEmployees, s.seedSales} {
		if err := step(); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	logger.Log.Info("Practice database created", zap.String("path", path))
	return nil
}

type seeder struct {
	tx       *sqlx.Tx
	r        *rand.Rand
	products []product
	sellers  []int
}

func (s *seeder) pick(list []string) string {
	return list[s.r.IntN(len(list))]
}

func (s *seeder) between(lo, hi int) int {
	return lo + s.r.IntN(hi-lo+1)
}

func (s *seeder) money(lo, hi float64) float64 {
	return round2(lo + s.r.Float64()*(hi-lo))
}

func (s *seeder) date(base time.Time, maxDays int) time.Time {
	return base.AddDate(0, 0, s.r.IntN(maxDays+1))
}

func (s *seeder) seedCustomers() error {
	stmt, err := s.tx.Preparex(`INSERT INTO customers
		(first_name, last_name, email, phone, city, state, country, registration_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		first, last := s.pick(firstNames), s.pick(lastNames)
		city := cities[s.r.IntN(len(cities))]
		active := 1
		if s.r.IntN(4) == 0 {
			active = 0
		}
		if _, err := stmt.Exec(
			first, last,
			fmt.Sprintf("%s.%s%d@email.com", strings.ToLower(first), strings.ToLower(last), i),
			fmt.Sprintf("555-%d", s.between(1000, 9999)),
			city[0], city[1], "USA",
			s.date(base, 365).Format("2006-01-02"),
			active,
		); err != nil {
			return fmt.Errorf("insert customer: %w", err)
		}
	}
	return nil
}

func (s *seeder) seedProducts() error {
	s.products = []product{
		{name: "Laptop Pro 15", category: "Electronics", price: 1299.99, cost: 899.99, supplier: "TechCorp"},
		{name: "Wireless Mouse", category: "Electronics", price: 29.99, cost: 15.00, supplier: "TechCorp"},
		{name: "USB-C Cable", category: "Electronics", price: 19.99, cost: 8.00, supplier: "TechCorp"},
		{name: "Office Chair", category: "Furniture", price: 299.99, cost: 150.00, supplier: "ComfortCo"},
		{name: "Standing Desk", category: "Furniture", price: 499.99, cost: 250.00, supplier: "ComfortCo"},
		{name: `Monitor 27"`, category: "Electronics", price: 349.99, cost: 200.00, supplier: "TechCorp"},
		{name: "Keyboard Mechanical", category: "Electronics", price: 149.99, cost: 80.00, supplier: "TechCorp"},
		{name: "Desk Lamp", category: "Furniture", price: 49.99, cost: 20.00, supplier: "ComfortCo"},
		{name: "Notebook Set", category: "Stationery", price: 12.99, cost: 5.00, supplier: "PaperPlus"},
		{name: "Pen Pack", category: "Stationery", price: 8.99, cost: 3.00, supplier: "PaperPlus"},
	}
	for i := range s.products {
		s.products[i].stock = s.between(10, 500)
	}

	for _, name := range []string{"Webcam", "Microphone", "Router", "Switch", "Hard Drive"} {
		s.products = append(s.products, product{
			name: name + " Pro", category: "Electronics", supplier: "TechCorp",
			price: s.money(50, 500), cost: s.money(20, 250), stock: s.between(10, 200),
		})
	}
	for _, name := range []string{"Bookshelf", "Cabinet", "Table", "Sofa", "Stool", "Stand", "Drawer"} {
		s.products = append(s.products, product{
			name: name + " Modern", category: "Furniture", supplier: "ComfortCo",
			price: s.money(100, 800), cost: s.money(50, 400), stock: s.between(5, 100),
		})
	}
	for _, name := range []string{"Pencil", "Marker", "Eraser", "Ruler", "Stapler", "Clip", "Folder", "Binder"} {
		s.products = append(s.products, product{
			name: name + " Set", category: "Stationery", supplier: "PaperPlus",
			price: s.money(5, 50), cost: s.money(2, 25), stock: s.between(50, 500),
		})
	}

	stmt, err := s.tx.Preparex(`INSERT INTO products
		(product_name, category, price, cost, stock_quantity, supplier)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range s.products {
		if _, err := stmt.Exec(p.name, p.category, p.price, p.cost, p.stock, p.supplier); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
	}
	return nil
}

func (s *seeder) seedOrders() error {
	orderStmt, err := s.tx.Preparex(`INSERT INTO orders
		(order_id, customer_id, order_date, ship_date, total_amount, status)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer orderStmt.Close()

	itemStmt, err := s.tx.Preparex(`INSERT INTO order_items
		(order_item_id, order_id, product_id, quantity, unit_price, discount)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	itemID := 1
	for orderID := 1; orderID <= 200; orderID++ {
		orderDate := s.date(base, 300)
		shipDate := orderDate.AddDate(0, 0, s.between(1, 7))

		type item struct {
			productID, quantity int
			unitPrice, discount float64
		}
		items := make([]item, s.between(1, 4))
		total := 0.0
		for i := range items {
			idx := s.r.IntN(len(s.products))
			items[i] = item{
				productID: idx + 1,
				quantity:  s.between(1, 5),
				unitPrice: s.products[idx].price,
				discount:  discounts[s.r.IntN(len(discounts))],
			}
			total += items[i].unitPrice * float64(items[i].quantity) * (1 - items[i].discount)
		}

		if _, err := orderStmt.Exec(
			orderID, s.between(1, 100),
			orderDate.Format("2006-01-02"), shipDate.Format("2006-01-02"),
			round2(total), s.pick(orderStatuses),
		); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, it := range items {
			if _, err := itemStmt.Exec(itemID, orderID, it.productID, it.quantity, it.unitPrice, it.discount); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
			itemID++
		}
	}
	return nil
}

func (s *seeder) seedEmployees() error {
	stmt, err := s.tx.Preparex(`INSERT INTO employees
		(employee_id, first_name, last_name, email, department, position, salary, hire_date, manager_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	id := 1
	insert := func(dept, position string, hired time.Time, managerID *int) error {
		first, last := s.pick(firstNames[:20]), s.pick(lastNames[:20])
		rng := salaryRanges[position]
		_, err := stmt.Exec(
			id, first, last,
			fmt.Sprintf("%s.%s%d@company.com", strings.ToLower(first), strings.ToLower(last), id),
			dept, position, s.money(rng[0], rng[1]), hired.Format("2006-01-02"), managerID,
		)
		if err != nil {
			return fmt.Errorf("insert employee: %w", err)
		}
		if dept == "Sales" {
			s.sellers = append(s.sellers, id)
		}
		id++
		return nil
	}

	for _, dept := range departments {
		head := "Director"
		if dept == "Customer Service" {
			head = "Manager"
		}
		managerID := id
		if err := insert(dept, head, s.date(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), 365), nil); err != nil {
			return err
		}

		for n := s.between(3, 5); n > 0; n-- {
			if err := insert(dept, s.pick(positions[dept]), s.date(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 1000), &managerID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) seedSales() error {
	stmt, err := s.tx.Preparex(`INSERT INTO sales
		(sale_id, employee_id, sale_date, amount, region)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for saleID := 1; saleID <= 500; saleID++ {
		if _, err := stmt.Exec(
			saleID,
			s.sellers[s.r.IntN(len(s.sellers))],
			s.date(base, 300).Format("2006-01-02"),
			s.money(100, 5000),
			s.pick(regions),
		); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
	}
	return nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
