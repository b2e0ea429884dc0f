package seeder

func Defaults(hashCost int) []Seeder {
	return []Seeder{
		DemoAccountsSeeder{HashCost: hashCost},
		DemoJobsSeeder{},
	}
}
