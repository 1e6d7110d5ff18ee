package domain

import "strings"

// Instrument describes a tradable instrument known to the application.
type Instrument struct {
	Symbol   string
	Name     string
	Token    int // Kite instrument token
	Category string
}

// instruments is the static symbol to instrument token table. Tokens
// are the NSE instrument tokens published by Zerodha.
var instruments = map[string]Instrument{
	// Indices
	"NIFTY50":   {Name: "Nifty 50 Index", Token: 256265, Category: "Index"},
	"BANKNIFTY": {Name: "Nifty Bank Index", Token: 260105, Category: "Index"},
	"SENSEX":    {Name: "BSE Sensex", Token: 265, Category: "Index"},

	// Nifty 50 stocks
	"RELIANCE":   {Name: "Reliance Industries Ltd", Token: 738561, Category: "Large Cap"},
	"TCS":        {Name: "Tata Consultancy Services Ltd", Token: 2953217, Category: "Large Cap"},
	"HDFCBANK":   {Name: "HDFC Bank Ltd", Token: 341249, Category: "Large Cap"},
	"BHARTIARTL": {Name: "Bharti Airtel Ltd", Token: 2714625, Category: "Large Cap"},
	"ICICIBANK":  {Name: "ICICI Bank Ltd", Token: 1270529, Category: "Large Cap"},
	"INFY":       {Name: "Infosys Ltd", Token: 408065, Category: "Large Cap"},
	"HINDUNILVR": {Name: "Hindustan Unilever Ltd", Token: 356865, Category: "Large Cap"},
	"SBIN":       {Name: "State Bank of India", Token: 779521, Category: "Large Cap"},
	"LT":         {Name: "Larsen & Toubro Ltd", Token: 2939649, Category: "Large Cap"},
	"ITC":        {Name: "ITC Ltd", Token: 424961, Category: "Large Cap"},
	"KOTAKBANK":  {Name: "Kotak Mahindra Bank Ltd", Token: 492033, Category: "Large Cap"},
	"BAJFINANCE": {Name: "Bajaj Finance Ltd", Token: 81153, Category: "Large Cap"},
	"ASIANPAINT": {Name: "Asian Paints Ltd", Token: 60417, Category: "Large Cap"},
	"MARUTI":     {Name: "Maruti Suzuki India Ltd", Token: 2815745, Category: "Large Cap"},
	"HCLTECH":    {Name: "HCL Technologies Ltd", Token: 1850625, Category: "Large Cap"},
	"AXISBANK":   {Name: "Axis Bank Ltd", Token: 54273, Category: "Large Cap"},
	"TITAN":      {Name: "Titan Company Ltd", Token: 897537, Category: "Large Cap"},
	"SUNPHARMA":  {Name: "Sun Pharmaceutical Industries Ltd", Token: 857857, Category: "Large Cap"},
	"WIPRO":      {Name: "Wipro Ltd", Token: 3787777, Category: "Large Cap"},
	"ULTRACEMCO": {Name: "UltraTech Cement Ltd", Token: 2952193, Category: "Large Cap"},
	"NESTLEIND":  {Name: "Nestle India Ltd", Token: 4598529, Category: "Large Cap"},
	"POWERGRID":  {Name: "Power Grid Corporation of India Ltd", Token: 3834113, Category: "Large Cap"},
	"NTPC":       {Name: "NTPC Ltd", Token: 2977281, Category: "Large Cap"},
	"TATAMOTORS": {Name: "Tata Motors Ltd", Token: 884737, Category: "Large Cap"},
	"JSWSTEEL":   {Name: "JSW Steel Ltd", Token: 3001089, Category: "Large Cap"},
	"M&M":        {Name: "Mahindra & Mahindra Ltd", Token: 519937, Category: "Large Cap"},
	"TECHM":      {Name: "Tech Mahindra Ltd", Token: 3465729, Category: "Large Cap"},
	"INDUSINDBK": {Name: "IndusInd Bank Ltd", Token: 1346049, Category: "Large Cap"},
	"BAJAJFINSV": {Name: "Bajaj Finserv Ltd", Token: 4268801, Category: "Large Cap"},
	"BRITANNIA":  {Name: "Britannia Industries Ltd", Token: 140033, Category: "Large Cap"},
	"ONGC":       {Name: "Oil & Natural Gas Corporation Ltd", Token: 633601, Category: "Large Cap"},
	"ADANIENT":   {Name: "Adani Enterprises Ltd", Token: 3861249, Category: "Large Cap"},
	"TATASTEEL":  {Name: "Tata Steel Ltd", Token: 895745, Category: "Large Cap"},
	"COALINDIA":  {Name: "Coal India Ltd", Token: 5215745, Category: "Large Cap"},
	"CIPLA":      {Name: "Cipla Ltd", Token: 177665, Category: "Large Cap"},
	"DRREDDY":    {Name: "Dr Reddy's Laboratories Ltd", Token: 225537, Category: "Large Cap"},
	"EICHERMOT":  {Name: "Eicher Motors Ltd", Token: 232961, Category: "Large Cap"},
	"HINDALCO":   {Name: "Hindalco Industries Ltd", Token: 348929, Category: "Large Cap"},
	"GRASIM":     {Name: "Grasim Industries Ltd", Token: 315393, Category: "Large Cap"},
	"BPCL":       {Name: "Bharat Petroleum Corporation Ltd", Token: 134657, Category: "Large Cap"},
	"BAJAJ-AUTO": {Name: "Bajaj Auto Ltd", Token: 4267265, Category: "Large Cap"},
	"ADANIPORTS": {Name: "Adani Ports and Special Economic Zone Ltd", Token: 3861761, Category: "Large Cap"},
	"APOLLOHOSP": {Name: "Apollo Hospitals Enterprise Ltd", Token: 41729, Category: "Large Cap"},
	"HEROMOTOCO": {Name: "Hero MotoCorp Ltd", Token: 345089, Category: "Large Cap"},
	"DIVISLAB":   {Name: "Divi's Laboratories Ltd", Token: 3050241, Category: "Large Cap"},
	"SBILIFE":    {Name: "SBI Life Insurance Company Ltd", Token: 5582849, Category: "Large Cap"},
	"SHRIRAMFIN": {Name: "Shriram Finance Ltd", Token: 4306689, Category: "Large Cap"},
	"HDFCLIFE":   {Name: "HDFC Life Insurance Company Ltd", Token: 119553, Category: "Large Cap"},
	"LTIM":       {Name: "LTIMindtree Ltd", Token: 11483906, Category: "Large Cap"},
	"TRENT":      {Name: "Trent Ltd", Token: 1964545, Category: "Large Cap"},

	// Mid caps
	"PAGEIND":    {Name: "Page Industries Ltd", Token: 637185, Category: "Mid Cap"},
	"GODREJCP":   {Name: "Godrej Consumer Products Ltd", Token: 295169, Category: "Mid Cap"},
	"MARICO":     {Name: "Marico Ltd", Token: 531201, Category: "Mid Cap"},
	"PIDILITIND": {Name: "Pidilite Industries Ltd", Token: 681985, Category: "Mid Cap"},
	"VOLTAS":     {Name: "Voltas Ltd", Token: 2707457, Category: "Mid Cap"},
	"INDIGO":     {Name: "InterGlobe Aviation Ltd", Token: 7707649, Category: "Mid Cap"},
	"VEDL":       {Name: "Vedanta Ltd", Token: 784129, Category: "Mid Cap"},
	"SAIL":       {Name: "Steel Authority of India Ltd", Token: 758529, Category: "Mid Cap"},
	"NMDC":       {Name: "NMDC Ltd", Token: 584449, Category: "Mid Cap"},
	"IOC":        {Name: "Indian Oil Corporation Ltd", Token: 415745, Category: "Mid Cap"},

	// Small caps
	"SUZLON":   {Name: "Suzlon Energy Ltd", Token: 857345, Category: "Small Cap"},
	"ZEEL":     {Name: "Zee Entertainment Enterprises Ltd", Token: 975873, Category: "Small Cap"},
	"YESBANK":  {Name: "Yes Bank Ltd", Token: 3675137, Category: "Small Cap"},
	"SPICEJET": {Name: "SpiceJet Ltd", Token: 2084865, Category: "Small Cap"},
	"RPOWER":   {Name: "Reliance Power Ltd", Token: 2744321, Category: "Small Cap"},

	// ETFs
	"NIFTYBEES": {Name: "Nippon India ETF Nifty BeES", Token: 15083, Category: "ETF"},
	"BANKBEES":  {Name: "Nippon India ETF Bank BeES", Token: 1195265, Category: "ETF"},
	"GOLDBEES":  {Name: "Goldman Sachs Gold BeES", Token: 1154561, Category: "ETF"},
}

// LookupInstrument resolves a symbol (case-insensitive) to its
// instrument entry. The second return value is false for symbols not
// present in the table.
func LookupInstrument(symbol string) (Instrument, bool) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	inst, ok := instruments[key]
	if !ok {
		return Instrument{}, false
	}
	inst.Symbol = key
	return inst, true
}

// Symbols returns all known symbols (unordered).
func Symbols() []string {
	out := make([]string, 0, len(instruments))
	for sym := range instruments {
		out = append(out, sym)
	}
	return out
}
