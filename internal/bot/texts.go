package bot

// User-facing copy. The bot keeps a single playful voice; handlers pick
// from these rather than building strings inline.
const (
	welcomeText = "🤖 Ahoy there, Solana Wallet Wrangler! Welcome to Solana Wallet Xray Bot! 🤖\n\n" +
		"I'm your trusty sidekick, here to help you juggle those wallets and keep an eye on transactions.\n" +
		"Once you've added your wallets, you can sit back and relax, as I'll swoop in with a snappy notification and a brief transaction summary every time your wallet makes a move on Solana. 🚀\n" +
		"Have a blast using the bot! 😄\n\n" +
		"Ready to rumble? Use the commands below and follow the prompts:"

	menuText = "The world is your oyster! Choose an action and let's embark on this thrilling journey! 🌍"

	backText = "No worries! Let's head back to the main menu for more fun! 🎉"

	addPromptText = "Alright, ready to expand your wallet empire? Send me the wallet address you'd like to add! 🎩"

	addEmptyText = "Oops! Looks like you forgot the wallet address. Send it over so we can get things rolling! 📨"

	addInvalidText = "Uh-oh! That Solana wallet address seems a bit fishy. Double-check it and send a valid one, please! 🕵️‍♂️"

	addTooActiveText = "Whoa, slow down Speedy Gonzales! 🏎️ We can only handle wallets with under 50 transactions per day. Your wallet's at %.1f. Let's pick another, shall we? 😉"

	addLimitText = "Oops! You've reached the wallet limit! It seems you're quite the collector, but we can only handle up to 5 wallets per user. Time to make some tough choices! 😄"

	addDuplicateText = "Hey there, déjà vu! You've already added this wallet. Time for a different action, perhaps? 🔄"

	addSuccessText = "Huzzah! Your wallet has been added with a flourish! 🎉 Now you can sit back, relax, and enjoy your Solana experience as I keep an eye on your transactions. What's your next grand plan?"

	addFailedText = "Bummer! We hit a snag while saving your wallet. Let's give it another whirl, shall we? 🔄"

	deletePromptText = "Time for some spring cleaning? Send the wallet address you'd like to sweep away! 🧹"

	deleteMissingText = "Hmm, that wallet's either missing or not yours. Let's try something else, okay? 🕵️‍♀️"

	deleteSuccessText = "Poof! Your wallet has vanished into thin air! Now, what other adventures await? ✨"

	deleteFailedText = "Yikes, we couldn't delete the wallet. Don't worry, we'll get it next time! Try again, please. 🔄"

	showEmptyText = "Whoa, no wallets here! Let's add some, or pick another action to make things exciting! 🎢"

	showListText = "Feast your eyes upon your wallet collection! 🎩\n\n%s\n\nNow, what's your next move, my friend? 🤔"
)
