package analysis

// Region is one of the fixed geographic buckets used to tailor advice.
type Region string

const (
	NorthAmerica  Region = "North America"
	SouthAmerica  Region = "South America"
	WesternEurope Region = "Western Europe"
	EasternEurope Region = "Eastern Europe"
	MiddleEast    Region = "Middle East"
	SouthAsia     Region = "South Asia"
	EastAsia      Region = "East Asia"
	SoutheastAsia Region = "Southeast Asia"
	Africa        Region = "Africa"
	Oceania       Region = "Oceania"
	OtherRegion   Region = "Other"
)

var regionCountries = []struct {
	region    Region
	countries []string
}{
	{NorthAmerica, []string{"United States", "Canada", "Mexico"}},
	{SouthAmerica, []string{"Brazil", "Argentina", "Colombia", "Peru", "Chile"}},
	{WesternEurope, []string{"United Kingdom", "France", "Germany", "Italy", "Spain"}},
	{EasternEurope, []string{"Russia", "Ukraine", "Poland", "Romania"}},
	{MiddleEast, []string{"Saudi Arabia", "UAE", "Turkey", "Iran", "Israel"}},
	{SouthAsia, []string{"India", "Pakistan", "Bangladesh", "Sri Lanka"}},
	{EastAsia, []string{"China", "Japan", "South Korea", "Taiwan"}},
	{SoutheastAsia, []string{"Indonesia", "Thailand", "Vietnam", "Philippines", "Malaysia"}},
	{Africa, []string{"Nigeria", "South Africa", "Kenya", "Egypt", "Ethiopia"}},
	{Oceania, []string{"Australia", "New Zealand"}},
}

// countryRegion is built once and only read afterwards.
var countryRegion = func() map[string]Region {
	m := make(map[string]Region)
	for _, rc := range regionCountries {
		for _, c := range rc.countries {
			m[c] = rc.region
		}
	}
	return m
}()

// ResolveRegion looks a country name up by exact match.
func ResolveRegion(country string) Region {
	if r, ok := countryRegion[country]; ok {
		return r
	}
	return OtherRegion
}

var regionAdvice = map[Metric]map[Region]string{
	Glucose: {
		NorthAmerica:  "In North America, consider following the American Diabetes Association guidelines for diet and exercise. Be mindful of portion sizes in restaurants.",
		SouthAmerica:  "In South America, incorporate more whole grains and legumes into your diet, which are staples in many South American cuisines and can help regulate blood glucose.",
		WesternEurope: "In Western Europe, adopt aspects of the Mediterranean diet, rich in vegetables, olive oil, and fish, which can help manage blood glucose levels.",
		EasternEurope: "In Eastern Europe, limit consumption of high-carb foods like potatoes and bread, which are common in Eastern European diets. Increase intake of non-starchy vegetables.",
		MiddleEast:    "In the Middle East, consider reducing intake of sugary desserts and beverages, especially during festivities. Incorporate more nuts and seeds into your diet.",
		SouthAsia:     "In South Asia, be mindful of the high carbohydrate content in rice and bread. Include more protein and vegetables in your meals to balance blood glucose.",
		EastAsia:      "In East Asia, maintain the tradition of green tea consumption, which may help regulate blood glucose. Be cautious with white rice intake.",
		SoutheastAsia: "In Southeast Asia, be mindful of hidden sugars in sauces and desserts. Opt for whole grain varieties of rice when possible.",
		Africa:        "In Africa, incorporate more leafy greens into your diet. Be cautious with traditional high-carb staples like fufu or ugali.",
		Oceania:       "In Oceania, take advantage of the abundance of fresh produce available. Be mindful of portion sizes, especially in regards to meat consumption.",
		OtherRegion:   "Focus on a balanced diet with plenty of vegetables, lean proteins, and whole grains. Regular physical activity is crucial for managing blood glucose levels.",
	},
	Cholesterol: {
		NorthAmerica:  "In North America, limit fast food consumption and opt for heart-healthy options when dining out. Consider following the DASH diet.",
		SouthAmerica:  "In South America, incorporate more fish into your diet, especially those rich in omega-3 fatty acids. Limit red meat consumption.",
		WesternEurope: "In Western Europe, adopt aspects of the Mediterranean diet, which is known for its heart-healthy properties. Increase consumption of olive oil and nuts.",
		EasternEurope: "In Eastern Europe, reduce consumption of fatty meats and high-fat dairy products. Increase intake of fruits, vegetables, and whole grains.",
		MiddleEast:    "In the Middle East, incorporate more legumes and vegetables into your diet. Limit consumption of fried foods and sweets.",
		SouthAsia:     "In South Asia, choose healthier cooking oils like mustard or olive oil. Increase consumption of fiber-rich foods like lentils and beans.",
		EastAsia:      "In East Asia, maintain high consumption of fish and soy products. Be mindful of salt intake, especially in soy sauce and other condiments.",
		SoutheastAsia: "In Southeast Asia, incorporate more fruits and vegetables into your diet. Be cautious with coconut milk and other high-saturated fat ingredients.",
		Africa:        "In Africa, increase consumption of fruits, vegetables, and whole grains. Limit intake of palm oil, which is high in saturated fat.",
		Oceania:       "In Oceania, take advantage of the abundance of seafood. Limit consumption of processed and high-fat meats.",
		OtherRegion:   "Focus on a diet low in saturated and trans fats. Increase consumption of fruits, vegetables, whole grains, and lean proteins.",
	},
	UricAcid: {
		NorthAmerica:  "Limit consumption of high-fructose corn syrup, which is common in many processed foods and soft drinks in North America.",
		SouthAmerica:  "Be cautious with beer consumption, especially during festivities. Opt for water or non-alcoholic beverages instead.",
		WesternEurope: "Limit intake of organ meats and game meats, which are high in purines. Moderate wine consumption may have protective effects against gout.",
		EasternEurope: "Reduce consumption of fatty meats and high-fat dairy products. Increase intake of cherries, which may have anti-inflammatory properties.",
		MiddleEast:    "Limit consumption of red meat in traditional dishes. Increase intake of plant-based proteins like lentils and beans.",
		SouthAsia:     "Be cautious with purine-rich legumes like lentils and beans. Balance your diet with low-purine vegetables and fruits.",
		EastAsia:      "Limit intake of seafood high in purines, such as shellfish. Green tea consumption may help lower uric acid levels.",
		SoutheastAsia: "Be mindful of high-purine ingredients in traditional dishes. Increase water intake, especially in hot and humid climates.",
		Africa:        "Limit consumption of organ meats, which are common in some African cuisines. Increase intake of vitamin C-rich fruits.",
		Oceania:       "Be cautious with seafood consumption, especially shellfish. Take advantage of the variety of fruits available to increase vitamin C intake.",
		OtherRegion:   "Limit intake of purine-rich foods, stay well-hydrated, and maintain a healthy weight through diet and exercise.",
	},
}

// RegionAdvice returns the region clause appended to a metric's recommendation.
func RegionAdvice(metric Metric, region Region) (string, error) {
	byRegion, ok := regionAdvice[metric]
	if !ok {
		return "", invalidMetric(string(metric))
	}
	if advice, ok := byRegion[region]; ok {
		return advice, nil
	}
	return byRegion[OtherRegion], nil
}
